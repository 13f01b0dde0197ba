package storage

import "github.com/dmitrijs2005/garage/internal/models"

// userRecord is the persisted shape of a user, shared by the file snapshot
// and the sqlite rows.
type userRecord struct {
	ID           string           `json:"id"`
	PasswordHash string           `json:"password_hash"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Phone        string           `json:"phone"`
	ZoomLevel    int              `json:"zoom_level"`
	Home         *models.GeoPoint `json:"home,omitempty"`
	Role         models.Role      `json:"role"`
}

func toRecord(u *models.User) userRecord {
	r := userRecord{
		ID:           u.ID,
		PasswordHash: u.PasswordHash(),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		ZoomLevel:    u.ZoomLevel,
		Role:         u.Role,
	}
	if u.Home != nil {
		h := *u.Home
		r.Home = &h
	}
	return r
}

func fromRecord(r userRecord) (*models.User, error) {
	u, err := models.RestoreUser(r.ID, r.PasswordHash)
	if err != nil {
		return nil, err
	}
	u.FirstName = r.FirstName
	u.LastName = r.LastName
	u.Phone = r.Phone
	u.ZoomLevel = r.ZoomLevel
	u.Role = r.Role
	if r.Home != nil {
		h := *r.Home
		u.Home = &h
	}
	return u, nil
}
