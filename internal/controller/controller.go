// Package controller exposes the scheduling core over HTTP. Handlers stay
// thin: decode, resolve the caller identity, call a service, write the
// result. All policy lives in the services.
package controller

import (
	"net/http"
	"strconv"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Controller struct {
	avail   *service.AvailabilityService
	matcher *service.Matcher
	courses *service.CourseService
	booking *service.BookingService
	ledger  *service.LedgerService
	admin   *service.AdminService
	logger  *zap.Logger
}

func New(
	avail *service.AvailabilityService,
	matcher *service.Matcher,
	courses *service.CourseService,
	booking *service.BookingService,
	ledger *service.LedgerService,
	admin *service.AdminService,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		avail:   avail,
		matcher: matcher,
		courses: courses,
		booking: booking,
		ledger:  ledger,
		admin:   admin,
		logger:  logger,
	}
}

// Router builds the HTTP route tree.
func (c *Controller) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", actorHeader},
	}))
	r.Use(requestLogger(c.logger))
	r.Use(identityMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users/{userID}/availability", func(r chi.Router) {
			r.Get("/", c.handleListWindows)
			r.Post("/", c.handleAddWindow)
			r.Put("/", c.handleReplaceWindows)
			r.Delete("/{windowID}", c.handleDeleteWindow)
		})

		r.Route("/students/{studentID}", func(r chi.Router) {
			r.Get("/matching-availability", c.handleMatchingAvailability)
			r.Get("/courses", c.handleStudentCourses)
			r.Get("/ledger", c.handleStudentLedger)
		})

		r.Route("/teachers/{teacherID}", func(r chi.Router) {
			r.Get("/courses", c.handleTeacherCourses)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Post("/", c.handleBookCourse)
			r.Get("/{courseID}", c.handleGetCourse)
			r.Patch("/{courseID}", c.handlePatchCourse)
			r.Post("/{courseID}/cancel", c.handleCancelCourse)
			r.Post("/{courseID}/feedback", c.handleAttachFeedback)
			r.Post("/{courseID}/homework", c.handleAttachHomework)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/courses", c.handleAdminCreateCourse)
			r.Put("/courses/{courseID}", c.handleAdminUpdateCourse)
			r.Delete("/courses/{courseID}", c.handleAdminDeleteCourse)
			r.Post("/students/{studentID}/credit", c.handleAdminCreditHours)
		})
	})

	return r
}

// urlID parses a numeric path parameter.
func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("invalid %s", name)
	}
	return id, nil
}
