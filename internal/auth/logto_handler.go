package auth

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/config"
	"github.com/h4ks-com/palay/internal/services"
	"github.com/logto-io/go/v2/client"
)

// LogtoHandler drives the OIDC browser login. Users signing in for the first
// time get a buyer account keyed by their subject.
type LogtoHandler struct {
	config         *config.LogtoConfig
	accountService *services.AccountService
}

func NewLogtoHandler(cfg *config.LogtoConfig, accountService *services.AccountService) *LogtoHandler {
	return &LogtoHandler{
		config:         cfg,
		accountService: accountService,
	}
}

func (h *LogtoHandler) CreateLogtoClient(ctx *gin.Context) *client.LogtoClient {
	session := sessions.Default(ctx)
	logtoConfig := &client.LogtoConfig{
		Endpoint:  h.config.Endpoint,
		AppId:     h.config.AppID,
		AppSecret: h.config.AppSecret,
	}
	return client.NewLogtoClient(logtoConfig, NewSessionStorage(session))
}

func (h *LogtoHandler) Login(ctx *gin.Context) {
	logtoClient := h.CreateLogtoClient(ctx)

	signInUri, err := logtoClient.SignIn(&client.SignInOptions{
		RedirectUri: h.config.RedirectURI,
	})
	if err != nil {
		ctx.String(http.StatusInternalServerError, fmt.Sprintf("Failed to initiate sign-in: %v", err))
		return
	}

	ctx.Redirect(http.StatusTemporaryRedirect, signInUri)
}

func (h *LogtoHandler) Callback(ctx *gin.Context) {
	logtoClient := h.CreateLogtoClient(ctx)

	if err := logtoClient.HandleSignInCallback(ctx.Request); err != nil {
		log.Printf("[LogtoHandler] Callback error: %v", err)
		ctx.String(http.StatusInternalServerError, fmt.Sprintf("Failed to handle callback: %v", err))
		return
	}

	claims, err := logtoClient.GetIdTokenClaims()
	if err != nil {
		log.Printf("[LogtoHandler] Failed to get ID token claims: %v", err)
		ctx.String(http.StatusInternalServerError, "Failed to read identity")
		return
	}

	user, err := h.accountService.FindOrCreate(claims.Sub, claims.Sub, "")
	if err != nil {
		log.Printf("[LogtoHandler] Failed to provision user %s: %v", claims.Sub, err)
		ctx.String(http.StatusInternalServerError, "Failed to provision account")
		return
	}

	log.Printf("[LogtoHandler] Signed in %s as %s", user.Username, user.Role)
	ctx.Redirect(http.StatusFound, "/swagger/index.html")
}

func (h *LogtoHandler) Logout(ctx *gin.Context) {
	logtoClient := h.CreateLogtoClient(ctx)

	signOutUri, err := logtoClient.SignOut(h.config.PostLogoutURI)
	if err != nil {
		ctx.String(http.StatusInternalServerError, fmt.Sprintf("Failed to initiate sign-out: %v", err))
		return
	}

	ctx.Redirect(http.StatusTemporaryRedirect, signOutUri)
}

// SessionSubject returns the OIDC subject of the signed-in browser session.
func (h *LogtoHandler) SessionSubject(ctx *gin.Context) (string, bool) {
	logtoClient := h.CreateLogtoClient(ctx)
	if !logtoClient.IsAuthenticated() {
		return "", false
	}

	claims, err := logtoClient.GetIdTokenClaims()
	if err != nil {
		log.Printf("[LogtoHandler] Failed to get ID token claims: %v", err)
		return "", false
	}
	return claims.Sub, true
}
