// Package service serves the pages of the contact book.
package service

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/contact-book/internal/apperr"
	"gitlab.com/dirk.krummacker/contact-book/internal/auth"
	"gitlab.com/dirk.krummacker/contact-book/internal/contacts"
	"gitlab.com/dirk.krummacker/contact-book/internal/session"
	pubmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// Dependencies are the collaborators of the HTTP handlers.
type Dependencies struct {
	Auth     *auth.Service
	Contacts *contacts.Service
	Sessions *session.Manager
	Logger   *slog.Logger
	// GinLogging turns off gin's request log when set to "off".
	GinLogging string
}

type handlers struct {
	Dependencies
}

// SetupHttpRouter initializes the router, loads the page templates and registers all endpoints.
func SetupHttpRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	var router *gin.Engine
	if strings.EqualFold(deps.GinLogging, "off") {
		deps.Logger.Info("Turning off HTTP request logging.")
		router = gin.New()
		router.Use(gin.Recovery())
	} else {
		router = gin.Default()
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(templates)

	h := &handlers{deps}
	router.Use(h.renderErrors, deps.Sessions.Middleware())
	gate := deps.Sessions.RequireUser()

	router.GET("/", h.index)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)
	router.GET("/signup", h.signUpForm)
	router.POST("/signup", h.signUp)
	router.GET("/create", h.createForm)
	router.POST("/create", h.create)
	router.GET("/:id", h.view)
	router.GET("/:id/edit", gate, h.editForm)
	router.POST("/:id/edit", gate, h.edit)
	router.GET("/:id/delete", gate, h.deleteForm)
	router.POST("/:id/delete", gate, h.delete)
	return router, nil
}

// renderErrors answers requests whose handler reported an error and wrote nothing. Authorization
// failures get the error page, other application errors a plain message. Anything unexpected is
// logged and hidden behind a generic 500.
func (h *handlers) renderErrors(c *gin.Context) {
	c.Next()
	last := c.Errors.Last()
	if last == nil || c.Writer.Written() {
		return
	}
	appErr, ok := apperr.As(last.Err)
	if !ok {
		h.Logger.Error("request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", last.Err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if appErr.Kind() == apperr.KindAuthorization {
		c.HTML(appErr.HTTPCode(), "error.html", gin.H{
			"errorCode":    appErr.HTTPCode(),
			"errorMessage": appErr.Message(),
		})
		return
	}
	c.String(appErr.HTTPCode(), appErr.Message())
}

// inlineError returns the message of errors that are shown on the submitted form.
func inlineError(err error) (string, bool) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.HTTPCode() != http.StatusOK {
		return "", false
	}
	return appErr.Message(), true
}

// page collects the template data shared by all pages.
func page(c *gin.Context, data gin.H) gin.H {
	if user, ok := session.UserFrom(c.Request.Context()); ok {
		data["user"] = user
	}
	return data
}

// parseID reads the contact id from the URL. Ids that are not numbers cannot name a contact.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(apperr.ErrContactNotFound)
		return 0, false
	}
	return id, true
}

// index lists all contacts.
func (h *handlers) index(c *gin.Context) {
	all, err := h.Contacts.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.HTML(http.StatusOK, "index.html", page(c, gin.H{"contacts": all}))
}

func (h *handlers) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", page(c, gin.H{}))
}

// login checks the credentials and starts a session.
func (h *handlers) login(c *gin.Context) {
	var form pubmodel.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
		return
	}
	user, err := h.Auth.LogIn(c.Request.Context(), form.Username, form.Password)
	if msg, ok := inlineError(err); ok {
		c.HTML(http.StatusOK, "login.html", page(c, gin.H{"error": msg, "username": form.Username}))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.Sessions.Login(c, user); err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.Sessions.Logout(c); err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *handlers) signUpForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", page(c, gin.H{"form": pubmodel.SignUpForm{}}))
}

// signUp registers a new user who then has to log in.
func (h *handlers) signUp(c *gin.Context) {
	var form pubmodel.SignUpForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
		return
	}
	_, err := h.Auth.SignUp(c.Request.Context(), auth.SignUpInput{
		FirstName:            form.FirstName,
		LastName:             form.LastName,
		Username:             form.Username,
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirmation,
	})
	if msg, ok := inlineError(err); ok {
		form.Password, form.PasswordConfirmation = "", ""
		c.HTML(http.StatusOK, "signup.html", page(c, gin.H{"error": msg, "form": form}))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *handlers) createForm(c *gin.Context) {
	c.HTML(http.StatusOK, "create.html", page(c, gin.H{"form": pubmodel.ContactForm{}}))
}

// create stores a new contact at the geocoded location of its address.
func (h *handlers) create(c *gin.Context) {
	var form pubmodel.ContactForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
		return
	}
	_, err := h.Contacts.Create(c.Request.Context(), contacts.InputFromForm(form))
	if msg, ok := inlineError(err); ok {
		c.HTML(http.StatusOK, "create.html", page(c, gin.H{"error": msg, "form": form}))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// view shows a single contact.
func (h *handlers) view(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := h.Contacts.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.HTML(http.StatusOK, "contact.html", page(c, gin.H{"contact": contact}))
}

func (h *handlers) editForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := h.Contacts.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.HTML(http.StatusOK, "edit.html", page(c, gin.H{"id": id, "form": contacts.FormFromContact(*contact)}))
}

// edit overwrites a contact with the submitted form.
func (h *handlers) edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var form pubmodel.ContactForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
		return
	}
	_, err := h.Contacts.Edit(c.Request.Context(), id, contacts.InputFromForm(form))
	if msg, ok := inlineError(err); ok {
		c.HTML(http.StatusOK, "edit.html", page(c, gin.H{"error": msg, "id": id, "form": form}))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// deleteForm asks for confirmation before a contact is deleted.
func (h *handlers) deleteForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := h.Contacts.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.HTML(http.StatusOK, "delete.html", page(c, gin.H{"contact": contact}))
}

func (h *handlers) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Contacts.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
