package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/session"
	"github.com/wichananm65/pharmachain-portal/internal/upload"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/auth/login", h.login)
	app.Post("/api/v1/auth/password/forgot", h.forgotPassword)
	app.Post("/api/v1/auth/password/verify-otp", h.verifyResetOTP)
	app.Post("/api/v1/auth/password/reset", h.resetPassword)
	app.Post("/api/v1/auth/signup", h.startSignup)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/auth/logout", h.logout)
	app.Get("/api/v1/auth/signup", h.getDraft)
	app.Post("/api/v1/auth/signup/resend-otp", h.resendOTP)
	app.Post("/api/v1/auth/signup/verify-otp", h.verifySignupOTP)
	app.Post("/api/v1/auth/signup/role", h.chooseRole)
	app.Post("/api/v1/auth/signup/documents", h.uploadDocuments)
}

func respond(c *fiber.Ctx, err error) error {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve})
	case errors.Is(err, ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid phone number or password"})
	case errors.Is(err, ErrNoSignup):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrWrongStep):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case upload.IsClientError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return apierr.Respond(c, err)
	}
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(Credentials)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	s, err := h.service.Login(c.UserContext(), *payload)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Login successful",
		"token":    s.Token,
		"role":     s.Role,
		"redirect": s.Redirect,
	})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	claims, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.Logout(c.UserContext(), claims.SessionID); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

type emailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type signupOTPRequest struct {
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

func (h *Handler) forgotPassword(c *fiber.Ctx) error {
	payload := new(emailRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.ForgotPassword(c.UserContext(), payload.Email); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "OTP sent to your email"})
}

func (h *Handler) verifyResetOTP(c *fiber.Ctx) error {
	payload := new(emailRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.VerifyResetOTP(c.UserContext(), payload.Email, payload.OTP); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "OTP verified"})
}

func (h *Handler) resetPassword(c *fiber.Ctx) error {
	payload := new(PasswordReset)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.ResetPassword(c.UserContext(), *payload); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}

func (h *Handler) startSignup(c *fiber.Ctx) error {
	payload := new(BasicInfo)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	s, d, err := h.service.StartSignup(c.UserContext(), *payload)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": s.Token, "signup": d})
}

func (h *Handler) sessionID(c *fiber.Ctx) (string, bool) {
	claims, err := session.FromCtx(c)
	if err != nil {
		return "", false
	}
	return claims.SessionID, true
}

func (h *Handler) getDraft(c *fiber.Ctx) error {
	sid, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	d, err := h.service.Draft(c.UserContext(), sid)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"signup": d.View()})
}

func (h *Handler) resendOTP(c *fiber.Ctx) error {
	sid, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.ResendSignupOTP(c.UserContext(), sid); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "OTP resent to your email"})
}

func (h *Handler) verifySignupOTP(c *fiber.Ctx) error {
	sid, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(signupOTPRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	d, err := h.service.VerifySignupOTP(c.UserContext(), sid, payload.OTP, payload.Password)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"signup": d})
}

func (h *Handler) chooseRole(c *fiber.Ctx) error {
	sid, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	var payload struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	d, err := h.service.ChooseRole(c.UserContext(), sid, payload.Role)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"signup": d})
}

func (h *Handler) uploadDocuments(c *fiber.Ctx) error {
	sid, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	files := make(map[string]*upload.File, len(signupDocuments))
	for _, field := range signupDocuments {
		f, err := upload.FromForm(c, field, false, upload.Documents)
		if err != nil {
			return respond(c, err)
		}
		files[field] = f
	}
	d, err := h.service.UploadDocuments(c.UserContext(), sid, files)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"signup": d, "message": "Registration complete. Your documents are under review."})
}
