package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/garage/internal/models"
)

// base carries the output methods every view shares.
type base struct {
	*Console
}

func (b base) ShowError(_ context.Context, msg string) {
	b.Println("error:", msg)
}

func (b base) ShowMessage(_ context.Context, msg string) {
	b.Println(msg)
}

func (b base) ShowCategories(_ context.Context, cats []models.Category) {
	if len(cats) == 0 {
		b.Println("No categories.")
		return
	}
	b.Println("Categories:")
	for _, c := range cats {
		b.Println("  " + c.Name)
	}
}

func (b base) showUserTable(title string, users []*models.User) {
	if len(users) == 0 {
		b.Println("No " + strings.ToLower(title) + ".")
		return
	}
	b.Println(title + ":")
	for _, u := range users {
		b.Printf("  %-16s %-7s %-28s %s\n", u.ID, u.Role, u.DisplayName(), u.Phone)
	}
}

func (b base) showUserDetail(u *models.User) {
	b.Printf("  id:         %s\n", u.ID)
	b.Printf("  role:       %s\n", u.Role)
	b.Printf("  first name: %s\n", u.FirstName)
	b.Printf("  last name:  %s\n", u.LastName)
	b.Printf("  phone:      %s\n", u.Phone)
	b.Printf("  zoom level: %d\n", u.ZoomLevel)
	b.Printf("  home:       %s\n", formatGeoPoint(u.Home))
}

func formatGeoPoint(p *models.GeoPoint) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// parseGeoPoint reads "lat,lng".
func parseGeoPoint(s string) (*models.GeoPoint, error) {
	latS, lngS, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("home position must be lat,lng")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("latitude must be a number between -90 and 90")
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngS), 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("longitude must be a number between -180 and 180")
	}
	return &models.GeoPoint{Lat: lat, Lng: lng}, nil
}
