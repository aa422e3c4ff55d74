package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/hemdhoni222/todo-app/internal/domain"
	"github.com/hemdhoni222/todo-app/internal/log"
	"github.com/hemdhoni222/todo-app/internal/notify"
	"github.com/hemdhoni222/todo-app/internal/oauth"
	"github.com/hemdhoni222/todo-app/internal/repo"
	"github.com/hemdhoni222/todo-app/internal/security"
)

// GoogleAuth is the provider round trip as the handlers consume it;
// oauth.Google implements it, tests substitute a canned profile.
type GoogleAuth interface {
	NewState() string
	VerifyState(state string) bool
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Profile, error)
}

type Handler struct {
	Store         repo.Store
	Notifier      *notify.Notifier
	Google        GoogleAuth
	JWTSecret     string
	TokenTTL      time.Duration
	OAuthTokenTTL time.Duration
	ClientURL     string
}

func NewHandler(store repo.Store, notifier *notify.Notifier, google GoogleAuth,
	jwtSecret string, tokenTTL, oauthTokenTTL time.Duration, clientURL string) *Handler {
	return &Handler{
		Store:         store,
		Notifier:      notifier,
		Google:        google,
		JWTSecret:     jwtSecret,
		TokenTTL:      tokenTTL,
		OAuthTokenTTL: oauthTokenTTL,
		ClientURL:     clientURL,
	}
}

type userSummaryResp struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

type authResp struct {
	Token string          `json:"token"`
	User  userSummaryResp `json:"user"`
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register with name, email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerReq true "register"
// @Success 200 {object} authResp
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	if u, err := h.Store.FindUserByEmail(c.Request.Context(), email); err != nil {
		serverError(c, "register lookup", err)
		return
	} else if u != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		serverError(c, "hash password", err)
		return
	}
	u := &domain.User{Name: name, Email: email, PasswordHash: hash}
	if err := h.Store.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		serverError(c, "create user", err)
		return
	}

	tok, err := security.Issue(h.JWTSecret, u.ID.Hex(), h.TokenTTL)
	if err != nil {
		serverError(c, "issue token", err)
		return
	}
	c.JSON(http.StatusOK, authResp{
		Token: tok,
		User:  userSummaryResp{ID: u.ID, Name: u.Name, Email: u.Email},
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} authResp
// @Failure 400 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	u, err := h.Store.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		serverError(c, "login lookup", err)
		return
	}
	// same message for unknown email and wrong password
	if u == nil || !security.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}

	tok, err := security.Issue(h.JWTSecret, u.ID.Hex(), h.TokenTTL)
	if err != nil {
		serverError(c, "issue token", err)
		return
	}
	c.JSON(http.StatusOK, authResp{
		Token: tok,
		User:  userSummaryResp{ID: u.ID, Name: u.Name, Email: u.Email},
	})
}

// GoogleRedirect godoc
// @Summary Start Google sign-in
// @Tags auth
// @Success 302
// @Router /auth/google [get]
func (h *Handler) GoogleRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, h.Google.AuthURL(h.Google.NewState()))
}

// GoogleCallback finishes the provider round trip. Every failure path lands
// on the front end's login page; success lands on the front end with the
// session token in the query string.
func (h *Handler) GoogleCallback(c *gin.Context) {
	loginURL := h.ClientURL + "/login"

	if c.Query("error") != "" || !h.Google.VerifyState(c.Query("state")) {
		c.Redirect(http.StatusFound, loginURL)
		return
	}
	profile, err := h.Google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.L().Warn("google exchange failed", zap.Error(err))
		c.Redirect(http.StatusFound, loginURL)
		return
	}

	u, err := h.Store.FindUserByGoogleID(c.Request.Context(), profile.Sub)
	if err != nil {
		c.Redirect(http.StatusFound, loginURL)
		return
	}
	if u == nil {
		// First Google sign-in: link to an existing password account with
		// the same address, otherwise create the user. Either way the
		// address must be provider-verified; an unverified email claiming
		// an existing account would be an account takeover.
		if !profile.EmailVerified {
			c.Redirect(http.StatusFound, loginURL)
			return
		}
		u, err = h.Store.FindUserByEmail(c.Request.Context(), profile.Email)
		if err != nil {
			c.Redirect(http.StatusFound, loginURL)
			return
		}
		if u != nil {
			if err := h.Store.LinkGoogleAccount(c.Request.Context(), u.ID, profile.Sub, profile.Picture); err != nil {
				c.Redirect(http.StatusFound, loginURL)
				return
			}
		} else {
			u = &domain.User{
				Name:     profile.Name,
				Email:    profile.Email,
				GoogleID: profile.Sub,
				Avatar:   profile.Picture,
			}
			if err := h.Store.CreateUser(c.Request.Context(), u); err != nil {
				c.Redirect(http.StatusFound, loginURL)
				return
			}
		}
	}

	tok, err := security.Issue(h.JWTSecret, u.ID.Hex(), h.OAuthTokenTTL)
	if err != nil {
		c.Redirect(http.StatusFound, loginURL)
		return
	}
	c.Redirect(http.StatusFound, h.ClientURL+"?token="+tok)
}

// Healthz godoc
// @Summary Liveness and store health
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func serverError(c *gin.Context, op string, err error) {
	log.L().Error(op, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}
