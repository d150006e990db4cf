package handlers

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/alextreichler/localcart/internal/models"
	"github.com/alextreichler/localcart/internal/requestctx"
	"github.com/alextreichler/localcart/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

const sessionName = "user-session"

type AuthHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	UploadDir    string
}

// Basic email validation regex
var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	if _, ok := session.Values["user_id"].(int); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("register.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AuthHandler) RegisterPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	fullName := r.FormValue("full_name")
	mobile := r.FormValue("mobile")
	email := r.FormValue("email")
	location := r.FormValue("location")
	latitude := r.FormValue("latitude")
	longitude := r.FormValue("longitude")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	errors := make(map[string]string)
	if fullName == "" {
		errors["full_name"] = "Your name is required."
	}
	if mobile == "" {
		errors["mobile"] = "Mobile number is required."
	}
	if email == "" {
		errors["email"] = "Email address is required."
	} else if !isValidEmail(email) {
		errors["email"] = "Please enter a valid email address."
	}
	if location == "" {
		errors["location"] = "Location is required."
	}
	if password == "" {
		errors["password"] = "Password is required."
	} else if password != confirm {
		errors["password"] = "Passwords do not match!"
	}

	if len(errors) == 0 {
		if existing, err := h.Store.GetUserByMobile(mobile); err != nil {
			errors["db"] = "Internal Server Error"
		} else if existing != nil {
			errors["mobile"] = "Mobile number already registered!"
		}
		if existing, err := h.Store.GetUserByEmail(email); err != nil {
			errors["db"] = "Internal Server Error"
		} else if existing != nil {
			errors["email"] = "Email already registered!"
		}
	}

	if len(errors) > 0 {
		for _, msg := range errors {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	profilePic := ""
	if file, header, err := r.FormFile("profile_pic"); err == nil {
		defer file.Close()
		if saved, err := saveProfilePic(file, header.Filename, h.UploadDir); err == nil {
			profilePic = saved
		} else {
			slog.Warn("Failed to save profile picture", "error", err)
		}
	}

	user := &models.User{
		FullName:   fullName,
		Mobile:     mobile,
		Email:      email,
		Location:   location,
		Latitude:   latitude,
		Longitude:  longitude,
		Password:   string(hashed),
		ProfilePic: profilePic,
	}
	if err := h.Store.CreateUser(user); err != nil {
		slog.Error("Failed to create user", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Registration failed. Please try again."})
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Registration successful! Please login."})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("login.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AuthHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)

	mobile := r.FormValue("mobile")
	password := r.FormValue("password")

	user, err := h.Store.GetUserByMobile(mobile)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid mobile number or password!"})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	session.Values["user_id"] = user.ID
	session.Values["user_name"] = user.FullName
	session.Options.Path = "/"
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + user.FullName + "!"})

	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Login successful, redirecting to /dashboard", "user_id", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	delete(session.Values, "user_id")
	delete(session.Values, "user_name")
	session.Options.MaxAge = -1 // Expire immediately
	session.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RequireUser gates authenticated routes. It resolves the session once and
// threads the user ID through the request context; downstream handlers pass
// it explicitly into every store call instead of re-reading the session.
func (h *AuthHandler) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, sessionName)
		userID, ok := session.Values["user_id"].(int)
		if !ok || userID == 0 {
			session.AddFlash(FlashMessage{Type: "error", Message: "You must be logged in to access this page."})
			session.Save(r, w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(requestctx.WithUserID(r.Context(), userID)))
	}
}
