package handlers

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/alextreichler/localcart/internal/requestctx"
	"github.com/alextreichler/localcart/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/nfnt/resize"
	"golang.org/x/crypto/bcrypt"
)

// saveProfilePic decodes, thumbnails and stores an uploaded image, returning
// the public URL path. Thumbnails are bounded to 300px and re-encoded as
// JPEG regardless of the source format.
func saveProfilePic(file io.Reader, filename, uploadDir string) (string, error) {
	var img image.Image
	var err error
	switch ext := filepath.Ext(filename); ext {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	default:
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := resize.Thumbnail(300, 300, img, resize.Lanczos3)

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s.jpg", uuid.New().String())
	out, err := os.Create(filepath.Join(uploadDir, name))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := jpeg.Encode(out, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return "", err
	}
	return "/static/uploads/" + name, nil
}

type ProfileHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	UploadDir    string
}

func (h *ProfileHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())

	user, err := h.Store.GetUserByID(userID)
	if err != nil || user == nil {
		http.Error(w, "Error fetching user", http.StatusInternalServerError)
		return
	}
	stats, err := h.Store.GetDashboardStats(userID)
	if err != nil {
		http.Error(w, "Error fetching stats", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("dashboard.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"User":    user,
		"Stats":   stats,
		"Flashes": GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *ProfileHandler) ProfileGet(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())

	user, err := h.Store.GetUserByID(userID)
	if err != nil || user == nil {
		http.Error(w, "Error fetching user", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("profile.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"User":      user,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *ProfileHandler) ProfilePost(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	user, err := h.Store.GetUserByID(userID)
	if err != nil || user == nil {
		http.Error(w, "Error fetching user", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	if v := r.FormValue("full_name"); v != "" {
		user.FullName = v
	}
	if v := r.FormValue("email"); v != "" {
		if !isValidEmail(v) {
			session.AddFlash(FlashMessage{Type: "error", Message: "Please enter a valid email address."})
			http.Redirect(w, r, "/profile", http.StatusSeeOther)
			return
		}
		user.Email = v
	}
	if v := r.FormValue("location"); v != "" {
		user.Location = v
	}

	if newPassword := r.FormValue("new_password"); newPassword != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
			http.Redirect(w, r, "/profile", http.StatusSeeOther)
			return
		}
		user.Password = string(hashed)
	}

	if file, header, err := r.FormFile("profile_pic"); err == nil {
		defer file.Close()
		saved, err := saveProfilePic(file, header.Filename, h.UploadDir)
		if err != nil {
			session.AddFlash(FlashMessage{Type: "error", Message: "Failed to save profile picture."})
			http.Redirect(w, r, "/profile", http.StatusSeeOther)
			return
		}
		// Drop the replaced file; the URL prefix maps into UploadDir.
		if user.ProfilePic != "" {
			old := filepath.Join(h.UploadDir, filepath.Base(user.ProfilePic))
			if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
				slog.Warn("Failed to remove old profile picture", "path", old, "error", err)
			}
		}
		user.ProfilePic = saved
	}

	if err := h.Store.UpdateProfile(user); err != nil {
		slog.Error("Failed to update profile", "user_id", userID, "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Failed to update profile."})
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	session.Values["user_name"] = user.FullName
	session.AddFlash(FlashMessage{Type: "success", Message: "Profile updated successfully!"})
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
