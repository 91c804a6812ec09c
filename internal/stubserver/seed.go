package stubserver

import (
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/artmarket-system/internal/model"
)

// Seed наполняет хранилище демонстрационными данными: администратором,
// покупателем, двумя художниками и небольшим каталогом. Пароли фиксированы
// для локальной разработки.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	admin := &userRecord{
		identity: model.Identity{
			ID:        uuid.NewString(),
			FirstName: "Site",
			LastName:  "Admin",
			Email:     "admin@artmarket.local",
			Role:      model.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: hashPassword("admin@artmarket.local", "admin123"),
	}
	buyer := &userRecord{
		identity: model.Identity{
			ID:        uuid.NewString(),
			FirstName: "Linh",
			LastName:  "Pham",
			Email:     "buyer@artmarket.local",
			Role:      model.RoleUser,
			Phone:     "0912345678",
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: hashPassword("buyer@artmarket.local", "buyer123"),
	}
	for _, rec := range []*userRecord{admin, buyer} {
		s.users[rec.identity.ID] = rec
		s.emails[rec.identity.Email] = rec.identity.ID
	}

	painter := &model.Artist{
		ID:        uuid.NewString(),
		Name:      "Mai Anh",
		Bio:       "Oil painter from Hanoi",
		Specialty: "painting",
		Featured:  true,
		Verified:  true,
		Rating:    4.8,
		CreatedAt: now,
		UpdatedAt: now,
	}
	sculptor := &model.Artist{
		ID:        uuid.NewString(),
		Name:      "Quang Huy",
		Bio:       "Bronze and stone sculpture",
		Specialty: "sculpture",
		Verified:  true,
		Rating:    4.5,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.artists[painter.ID] = painter
	s.artists[sculptor.ID] = sculptor

	categories := []*model.Category{
		{ID: uuid.NewString(), Name: "Painting", Slug: "painting", Order: 1, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Sculpture", Slug: "sculpture", Order: 2, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Photography", Slug: "photography", Order: 3, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}

	products := []*model.Product{
		{
			ID:          uuid.NewString(),
			Title:       "Morning Over The Red River",
			Description: "Oil on canvas, 2023",
			PriceValue:  2500000,
			Currency:    "VND",
			Category:    "painting",
			Dimensions:  model.Dimensions{Width: 80, Height: 60, Unit: "cm"},
			Material:    "oil on canvas",
			Year:        2023,
			ArtistID:    painter.ID,
			ArtistName:  painter.Name,
			IsAvailable: true,
			Stock:       3,
			Featured:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Lotus Study IV",
			Description: "Watercolor on paper, 2024",
			PriceValue:  800000,
			Currency:    "VND",
			Category:    "painting",
			Dimensions:  model.Dimensions{Width: 40, Height: 30, Unit: "cm"},
			Material:    "watercolor",
			Year:        2024,
			ArtistID:    painter.ID,
			ArtistName:  painter.Name,
			IsAvailable: true,
			Stock:       10,
			CreatedAt:   now.Add(time.Second),
			UpdatedAt:   now.Add(time.Second),
		},
		{
			ID:          uuid.NewString(),
			Title:       "Standing Figure",
			Description: "Bronze, edition of 5",
			PriceValue:  6000000,
			Currency:    "VND",
			Category:    "sculpture",
			Dimensions:  model.Dimensions{Width: 20, Height: 45, Depth: 15, Unit: "cm"},
			Material:    "bronze",
			Year:        2022,
			ArtistID:    sculptor.ID,
			ArtistName:  sculptor.Name,
			IsAvailable: true,
			Stock:       5,
			Featured:    true,
			CreatedAt:   now.Add(2 * time.Second),
			UpdatedAt:   now.Add(2 * time.Second),
		},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	painter.TotalProducts = 2
	sculptor.TotalProducts = 1

	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	for _, c := range categories {
		c.ProductCount = counts[c.Slug]
	}
}
