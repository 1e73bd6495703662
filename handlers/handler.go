package handlers

import (
	"database/sql"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"clinicconnect/ui"
	"clinicconnect/utils"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	db       *sql.DB
	sessions utils.SessionStore
	mailer   utils.Mailer
	log      zerolog.Logger
	secret   []byte
	ttl      time.Duration
}

type Options struct {
	DB            *sql.DB
	Sessions      utils.SessionStore
	Mailer        utils.Mailer
	Logger        zerolog.Logger
	SessionSecret string
	SessionTTL    time.Duration
}

func New(opts Options) *Handler {
	mailer := opts.Mailer
	if mailer == nil {
		mailer = utils.NopMailer{}
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Handler{
		db:       opts.DB,
		sessions: opts.Sessions,
		mailer:   mailer,
		log:      opts.Logger,
		secret:   []byte(opts.SessionSecret),
		ttl:      ttl,
	}
}

// NewServer builds the echo instance with every route registered.
func NewServer(h *Handler, renderer echo.Renderer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = h.ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(RequestID())
	e.Use(Logger(h.log))
	e.Use(Recovery(h.log))
	e.Use(h.LoadSession)

	h.Routes(e)
	return e
}

func (h *Handler) Routes(e *echo.Echo) {
	e.StaticFS("/static", ui.Static())
	e.GET("/health", h.Health)

	e.GET("/", h.Home)
	e.GET("/about", h.About)

	e.GET("/register", h.RegisterPage)
	e.POST("/register", h.Register)
	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login)
	e.GET("/logout", h.Logout)

	patients := e.Group("/patients", h.RequireAuth)
	patients.GET("", h.ListPatients)
	patients.GET("/add", h.AddPatientPage)
	patients.POST("/add", h.AddPatient)

	appointments := e.Group("/appointments", h.RequireAuth)
	appointments.GET("", h.ListAppointments)
	appointments.GET("/add", h.AddAppointmentPage)
	appointments.POST("/add", h.AddAppointment)

	search := e.Group("/search", h.RequireAuth)
	search.GET("", h.SearchPage)

	api := e.Group("/api", h.RequireAuth)
	api.GET("/search", h.SearchAPI)
}
