// Package model содержит доменные сущности арт-маркетплейса.
package model

import (
	"strings"
	"time"
)

// Role описывает роль принципала в системе.
type Role string

const (
	// RoleGuest обозначает неаутентифицированного посетителя.
	RoleGuest  Role = "guest"
	RoleUser   Role = "user"
	RoleArtist Role = "artist"
	RoleAdmin  Role = "admin"
)

// Valid проверяет, что роль входит в закрытый набор значений.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

// Satisfies проверяет, покрывает ли роль требуемую. Администратор
// удовлетворяет любому требованию, остальные роли — только точному совпадению.
func (r Role) Satisfies(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// Address описывает почтовый адрес пользователя.
type Address struct {
	Street   string `json:"street"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	City     string `json:"city"`
}

// Identity представляет аутентифицированного пользователя маркетплейса.
// Отсутствующая Identity (nil) означает гостя.
type Identity struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Role            Role      `json:"role"`
	Phone           string    `json:"phone,omitempty"`
	Avatar          string    `json:"avatar,omitempty"`
	Address         *Address  `json:"address,omitempty"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DisplayName возвращает отображаемое имя пользователя.
func (u *Identity) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Dimensions описывает физические размеры работы.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth,omitempty"`
	Unit   string  `json:"unit"`
}

// Product представляет работу, выставленную на продажу.
type Product struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PriceValue  float64    `json:"priceValue"`
	Currency    string     `json:"currency"`
	Images      []string   `json:"images"`
	Category    string     `json:"category"`
	Dimensions  Dimensions `json:"dimensions"`
	Material    string     `json:"material"`
	Year        int        `json:"year"`
	ArtistID    string     `json:"artistId"`
	ArtistName  string     `json:"artistName"`
	IsAvailable bool       `json:"isAvailable"`
	Stock       int        `json:"stock"`
	Tags        []string   `json:"tags,omitempty"`
	Featured    bool       `json:"featured"`
	Views       int        `json:"views"`
	Likes       int        `json:"likes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SocialLinks содержит ссылки художника на внешние ресурсы.
type SocialLinks struct {
	Website   string `json:"website,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
}

// Artist представляет профиль художника.
type Artist struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	Name          string       `json:"name"`
	Bio           string       `json:"bio"`
	Specialty     string       `json:"specialty"`
	Avatar        string       `json:"avatar"`
	CoverImage    string       `json:"coverImage,omitempty"`
	SocialLinks   *SocialLinks `json:"socialLinks,omitempty"`
	Featured      bool         `json:"featured"`
	Verified      bool         `json:"verified"`
	TotalProducts int          `json:"totalProducts"`
	TotalSales    int          `json:"totalSales"`
	Rating        float64      `json:"rating"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Category представляет категорию каталога.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	Image        string    `json:"image,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Order        int       `json:"order"`
	IsActive     bool      `json:"isActive"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Pagination описывает параметры постраничного вывода в ответах списков.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
