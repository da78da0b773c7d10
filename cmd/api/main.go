package main

import (
	"os"

	"notebloc/internal/domain/policy"
	"notebloc/internal/domain/sqlite"
	"notebloc/internal/domain/sqlite/repository"
	"notebloc/internal/http/handler"
	authmw "notebloc/internal/http/middleware"
	"notebloc/internal/infrastructure/email"
	"notebloc/internal/service"
	"notebloc/internal/utils/token"
	"notebloc/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	// Loads from .env when present, real env otherwise
	if err := godotenv.Load(); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		panic(err)
	}

	tokens, err := token.NewIssuer(os.Getenv("JWT_SECRET"))
	if err != nil {
		panic(err)
	}

	sender := email.NewResendSender(os.Getenv("RESEND_API_KEY"), os.Getenv("EMAIL_FROM"))
	mailer := service.NewMailer(sender)
	defer mailer.Close()

	// Gettings repos
	noteRepo := repository.NewNoteRepository(db)
	userRepo := repository.NewUserRepository(db)
	shareRepo := repository.NewShareRepository(db)
	tagRepo := repository.NewTagRepository(db)

	notePolicy := policy.NewNotePolicy()

	// Getting services
	authService := service.NewAuthService(userRepo, validate, tokens, mailer)
	userService := service.NewUserService(userRepo, validate)
	noteService := service.NewNoteService(noteRepo, tagRepo, notePolicy, validate)
	shareService := service.NewShareService(shareRepo, noteRepo, userRepo, notePolicy, validate)
	tagService := service.NewTagService(tagRepo, noteRepo, notePolicy, validate)

	// Gettings handler
	authRoutes := handler.NewAuthDefault(authService)
	noteRoutes := handler.NewNoteDefault(noteService)
	userRoutes := handler.NewUserDefault(userService)
	shareRoutes := handler.NewShareDefault(shareService)
	tagRoutes := handler.NewTagDefault(tagService)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("2M"))

	// Auth
	e.POST("/api/auth/register", authRoutes.Register)
	e.POST("/api/auth/login", authRoutes.Login)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	api := e.Group("/api", authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{
		UserRepo: userRepo,
		Tokens:   tokens,
	}))

	// Notes
	api.GET("/notes", noteRoutes.GetNotes)
	api.GET("/notes/:id", noteRoutes.GetNote)
	api.POST("/notes", noteRoutes.CreateNote)
	api.PUT("/notes/:id", noteRoutes.UpdateNote)
	api.DELETE("/notes/:id", noteRoutes.DeleteNote)

	// Shares
	api.POST("/noteshares", shareRoutes.CreateShare)
	api.GET("/noteshares/shared-by-me", shareRoutes.GetSharedByMe)
	api.GET("/noteshares/shared-with-me", shareRoutes.GetSharedWithMe)
	api.GET("/noteshares/:id", shareRoutes.GetShareDetails)
	api.PUT("/noteshares/:id", shareRoutes.UpdateShare)
	api.DELETE("/noteshares/:id", shareRoutes.DeleteShare)
	api.PUT("/noteshares/shared-note-edit/:noteId", shareRoutes.EditSharedNote)
	api.DELETE("/noteshares/remove-my-access/:noteId", shareRoutes.RemoveMyAccess)

	// Tags
	api.GET("/tags", tagRoutes.GetTags)
	api.GET("/tags/all", tagRoutes.GetAllTags)
	api.GET("/tags/:id", tagRoutes.GetTag)
	api.GET("/tags/:id/notes", tagRoutes.GetNotesByTag)
	api.POST("/tags", tagRoutes.CreateTag)
	api.PUT("/tags/:id", tagRoutes.UpdateTag)
	api.DELETE("/tags/:id", tagRoutes.DeleteTag)
	api.POST("/tags/notes", tagRoutes.AddTagToNote)
	api.DELETE("/tags/notes", tagRoutes.RemoveTagFromNote)

	// Users
	api.GET("/users", userRoutes.GetUsers)
	api.GET("/users/:id", userRoutes.GetUser)
	api.PATCH("/users/:id", userRoutes.UpdateUser)
	api.DELETE("/users/:id", userRoutes.DeleteUser)
	api.POST("/users/:id/promote", userRoutes.PromoteUser)

	if err := e.Start(":" + port()); err != nil {
		panic(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nodupes", validators.NoDupes)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "7070"
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
