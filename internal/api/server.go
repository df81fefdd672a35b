package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/ticktopia-api/docs"
	v1 "github.com/vietanh2810/ticktopia-api/internal/api/handler/v1"
	"github.com/vietanh2810/ticktopia-api/internal/api/middleware"
	"github.com/vietanh2810/ticktopia-api/internal/clock"
	"github.com/vietanh2810/ticktopia-api/internal/config"
	"github.com/vietanh2810/ticktopia-api/internal/repository"
	"github.com/vietanh2810/ticktopia-api/internal/repository/dao"
	"github.com/vietanh2810/ticktopia-api/internal/service"
	"github.com/vietanh2810/ticktopia-api/internal/session"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	redis    *redis.Client
	sessions *session.Store
	clock    clock.Clock
}

type handlers struct {
	auth         *v1.AuthHandler
	user         *v1.UserHandler
	event        *v1.EventHandler
	presentation *v1.PresentationHandler
	ticket       *v1.TicketHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB, rdb *redis.Client, notifier service.Notifier, clk clock.Clock) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:   conf,
		Router:   engine,
		redis:    rdb,
		sessions: session.NewStore(rdb),
		clock:    clk,
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db, notifier))

	return s
}

func (s *Server) initHandlers(db *gorm.DB, notifier service.Notifier) handlers {
	users := repository.NewUserRepository(dao.NewUserDAO(db))
	events := repository.NewEventRepository(dao.NewEventDAO(db))
	presentations := repository.NewPresentationRepository(dao.NewPresentationDAO(db))
	tickets := repository.NewTicketRepository(dao.NewTicketDAO(db))
	tx := dao.NewTransactor(db)
	guard := service.NewDeletionGuard(tickets)

	userSvc := service.NewUserService(users)
	authSvc := service.NewAuthService(users, s.sessions)
	eventSvc := service.NewEventService(events, users, guard, tx)
	presentationSvc := service.NewPresentationService(presentations, events, guard, tx, s.clock)
	ticketSvc := service.NewTicketService(tickets, presentations, notifier, tx, s.clock)

	return handlers{
		auth:         v1.NewAuthHandler(s.Config.API, authSvc, userSvc, s.clock),
		user:         v1.NewUserHandler(userSvc),
		event:        v1.NewEventHandler(eventSvc, userSvc),
		presentation: v1.NewPresentationHandler(presentationSvc, userSvc),
		ticket:       v1.NewTicketHandler(ticketSvc, userSvc),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey, s.sessions, s.clock)
	verify := authenticator.VerifyJWT()
	optional := authenticator.OptionalJWT()
	limit := middleware.RateLimit(s.Config.RateLimit, s.redis, s.clock)

	api := s.Router.Group(basePath)

	auth := api.Group("/auth")
	{
		auth.POST("/register", limit, h.auth.HandleRegister)
		auth.POST("/login", limit, h.auth.HandleLogin)
		auth.POST("/register-manager", verify, h.auth.HandleRegisterManager)
		auth.POST("/logout", verify, h.auth.HandleLogout)
	}

	users := api.Group("/users", verify)
	{
		users.GET("", h.user.HandleListUsers)
		users.GET("/:userID", h.user.HandleGetUser)
		users.PATCH("/:userID", h.user.HandleUpdateUser)
		users.DELETE("/:userID", h.user.HandleDeleteUser)
		users.PUT("/:userID/roles", h.user.HandleSetRoles)
	}

	events := api.Group("/events")
	{
		events.GET("", h.event.HandleListPublicEvents)
		events.POST("", verify, h.event.HandleCreateEvent)
		events.GET("/mine", verify, h.event.HandleListOwnedEvents)
		events.GET("/:eventID", optional, h.event.HandleGetEvent)
		events.GET("/:eventID/unrestricted", verify, h.event.HandleGetEventUnrestricted)
		events.PATCH("/:eventID", verify, h.event.HandleUpdateEvent)
		events.DELETE("/:eventID", verify, h.event.HandleDeleteEvent)

		events.GET("/:eventID/presentations", h.presentation.HandleListPublicPresentations)
		events.POST("/:eventID/presentations", verify, h.presentation.HandleCreatePresentation)
		events.GET("/:eventID/presentations/manage", verify, h.presentation.HandleListManagedPresentations)
	}

	presentations := api.Group("/presentations")
	{
		presentations.GET("/:presentationID", h.presentation.HandleGetPresentation)
		presentations.GET("/:presentationID/unrestricted", verify, h.presentation.HandleGetPresentationUnrestricted)
		presentations.PATCH("/:presentationID", verify, h.presentation.HandleUpdatePresentation)
		presentations.DELETE("/:presentationID", verify, h.presentation.HandleDeletePresentation)
		presentations.POST("/:presentationID/tickets", verify, h.ticket.HandleIssueTicket)
	}

	tickets := api.Group("/tickets", verify)
	{
		tickets.GET("/mine", h.ticket.HandleListMyTickets)
		tickets.GET("/:ticketID", h.ticket.HandleGetTicket)
		tickets.POST("/:ticketID/redeem", h.ticket.HandleRedeemTicket)
		tickets.POST("/:ticketID/deactivate", h.ticket.HandleDeactivateTicket)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Ticktopia API"
	docs.SwaggerInfo.Description = "Event ticketing: events, presentations and tickets."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
