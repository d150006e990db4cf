package store

import (
	"database/sql"

	"github.com/alextreichler/localcart/internal/models"
)

func (s *Store) GetUserByMobile(mobile string) (*models.User, error) {
	query := `SELECT id, full_name, mobile, email, location, COALESCE(latitude, '') as latitude, COALESCE(longitude, '') as longitude, password, COALESCE(profile_pic, '') as profile_pic, created_at FROM users WHERE mobile = ?`
	return s.scanUser(s.DB.QueryRow(query, mobile))
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT id, full_name, mobile, email, location, COALESCE(latitude, '') as latitude, COALESCE(longitude, '') as longitude, password, COALESCE(profile_pic, '') as profile_pic, created_at FROM users WHERE LOWER(email) = LOWER(?)`
	return s.scanUser(s.DB.QueryRow(query, email))
}

func (s *Store) GetUserByID(id int) (*models.User, error) {
	query := `SELECT id, full_name, mobile, email, location, COALESCE(latitude, '') as latitude, COALESCE(longitude, '') as longitude, password, COALESCE(profile_pic, '') as profile_pic, created_at FROM users WHERE id = ?`
	return s.scanUser(s.DB.QueryRow(query, id))
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FullName, &u.Mobile, &u.Email, &u.Location, &u.Latitude, &u.Longitude, &u.Password, &u.ProfilePic, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser expects the password to already be hashed.
func (s *Store) CreateUser(u *models.User) error {
	query := `
		INSERT INTO users (full_name, mobile, email, location, latitude, longitude, password, profile_pic, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := s.DB.Exec(query, u.FullName, u.Mobile, u.Email, u.Location, u.Latitude, u.Longitude, u.Password, u.ProfilePic)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = int(id)
	return nil
}

// UpdateProfile rewrites the user's editable fields. Mobile is the login
// identity and is never changed here.
func (s *Store) UpdateProfile(u *models.User) error {
	query := `UPDATE users SET full_name = ?, email = ?, location = ?, password = ?, profile_pic = ? WHERE id = ?`
	_, err := s.DB.Exec(query, u.FullName, u.Email, u.Location, u.Password, u.ProfilePic, u.ID)
	return err
}
