package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
)

type seeder struct {
	attractions *services.AttractionService
	news        *services.NewsService
	gallery     *services.GalleryService
	cultural    *services.CulturalService
	itineraries *services.ItineraryService
}

// highland greens and earth tones
var palette = []color.RGBA{
	{R: 0x2f, G: 0x6b, B: 0x3a, A: 0xff},
	{R: 0x8a, G: 0x5a, B: 0x2b, A: 0xff},
	{R: 0x3b, G: 0x7d, B: 0xa8, A: 0xff},
	{R: 0xc9, G: 0x9a, B: 0x2e, A: 0xff},
}

// placeholder renders a small two-band PNG, shade picked from seed
func placeholder(name string, seed int) (*services.ImageFile, error) {
	const w, h = 64, 40
	top := palette[seed%len(palette)]
	bottom := palette[(seed+1)%len(palette)]

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := top
		if y >= h*2/3 {
			c = bottom
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}
	return &services.ImageFile{
		Name:        slug(name) + ".png",
		ContentType: "image/png",
		Size:        int64(buf.Len()),
		Reader:      &buf,
	}, nil
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

func (s *seeder) run(ctx context.Context) error {
	n := 0
	next := func(name string) (*services.ImageFile, error) {
		n++
		return placeholder(name, n)
	}

	for _, a := range sampleAttractions {
		img, err := next(a.Name)
		if err != nil {
			return err
		}
		if _, err := s.attractions.Create(ctx, a, img); err != nil {
			return fmt.Errorf("attraction %q: %w", a.Name, err)
		}
	}
	for _, a := range sampleNews {
		img, err := next(a.Title)
		if err != nil {
			return err
		}
		if _, err := s.news.Create(ctx, a, img); err != nil {
			return fmt.Errorf("article %q: %w", a.Title, err)
		}
	}
	for _, g := range sampleGallery {
		img, err := next(g.Title)
		if err != nil {
			return err
		}
		if _, err := s.gallery.Create(ctx, g, img); err != nil {
			return fmt.Errorf("photo %q: %w", g.Title, err)
		}
	}
	for _, c := range sampleCultural {
		img, err := next(c.Title)
		if err != nil {
			return err
		}
		if _, err := s.cultural.Create(ctx, c, img); err != nil {
			return fmt.Errorf("cultural item %q: %w", c.Title, err)
		}
	}
	for _, it := range sampleItineraries {
		if _, err := s.itineraries.Create(ctx, it); err != nil {
			return fmt.Errorf("itinerary %q: %w", it.Title, err)
		}
	}

	log.Info().
		Int("attractions", len(sampleAttractions)).
		Int("news", len(sampleNews)).
		Int("gallery", len(sampleGallery)).
		Int("cultural", len(sampleCultural)).
		Int("itineraries", len(sampleItineraries)).
		Msg("Seeded")
	return nil
}

var sampleAttractions = []models.AttractionFields{
	{
		Name:             "Wenjelu Waterfall",
		ShortDescription: "A tall waterfall in a forested gorge",
		Description:      "Wenjelu drops into a green gorge a short walk from the nearest village. The path is steep in places and slippery after rain.",
		Location:         models.Location{Latitude: 7.18, Longitude: 37.61, Address: "Tembaro woreda"},
		Category:         "natural",
		Difficulty:       "moderate",
		Duration:         "Half day",
		Accessibility:    "Footpath, not suitable for wheelchairs",
		Highlights:       []string{"Scenic views", "Photography", "Birdwatching"},
		BestTime:         "October to January",
		Featured:         true,
	},
	{
		Name:             "Ambericho Mountain",
		ShortDescription: "Highland trek with views over the valley",
		Description:      "A day trek through farmland and montane forest up to the ridge of Ambericho.",
		Location:         models.Location{Latitude: 7.23, Longitude: 37.88, Address: "Near Durame"},
		Category:         "natural",
		Difficulty:       "challenging",
		Duration:         "Full day",
		Accessibility:    "Guided trek",
		Highlights:       []string{"Panoramic views", "Montane forest"},
		BestTime:         "November to February",
		Featured:         true,
	},
	{
		Name:             "Mudula Market",
		ShortDescription: "The busiest weekly market in the area",
		Description:      "Farmers from the surrounding hills bring coffee, enset and livestock to the market every week.",
		Location:         models.Location{Latitude: 7.20, Longitude: 37.67, Address: "Mudula town"},
		Category:         "cultural",
		Difficulty:       "easy",
		Duration:         "2 hours",
		Accessibility:    "Accessible",
		Highlights:       []string{"Local produce", "Crafts"},
		BestTime:         "Market days",
		Featured:         true,
	},
}

var sampleNews = []models.NewsFields{
	{
		Title:       "Coffee harvest festival announced",
		Excerpt:     "Join the celebration of this year's harvest.",
		Content:     "The harvest festival returns this season.\n\nExpect music, coffee ceremonies and a market of local crafts.",
		Category:    "events",
		Author:      "Tembaro Tourism Office",
		PublishDate: "2024-11-01",
		Featured:    true,
	},
	{
		Title:       "New trail markers on the Wenjelu path",
		Excerpt:     "The path to the waterfall is now signposted.",
		Content:     "Volunteers have placed markers along the path to Wenjelu.\n\nGuides are still recommended during the rainy season.",
		Category:    "announcements",
		Author:      "Tembaro Tourism Office",
		PublishDate: "2024-10-15",
	},
}

var sampleGallery = []models.GalleryFields{
	{Title: "Morning mist over the valley", Description: "Seen from the Ambericho ridge.", Category: "nature"},
	{Title: "Market day in Mudula", Description: "Coffee sellers at the weekly market.", Category: "people"},
	{Title: "Traditional house", Description: "A thatched house near Tembaro.", Category: "culture"},
}

var sampleCultural = []models.CulturalFields{
	{Title: "Coffee ceremony", Description: "Coffee is roasted, ground and brewed in front of guests, served in three rounds.", Category: "tradition", IsFeatured: true},
	{Title: "Enset cultivation", Description: "The false banana plant is the staple crop of the highlands.", Category: "tradition", IsFeatured: true},
	{Title: "Meskel celebration", Description: "The finding of the true cross is marked with bonfires in September.", Category: "festival", IsFeatured: true},
}

var sampleItineraries = []models.ItineraryFields{
	{
		Title:       "A day at Wenjelu",
		Description: "Morning walk to the waterfall, lunch in the village and a coffee ceremony in the afternoon.",
		Duration:    "1 day",
		Difficulty:  "moderate",
		Highlights:  []string{"Wenjelu Waterfall", "Coffee ceremony"},
	},
	{
		Title:       "Highlands weekend",
		Description: "Trek Ambericho on the first day and visit Mudula market on the second.",
		Duration:    "2 days",
		Difficulty:  "challenging",
		Highlights:  []string{"Ambericho Mountain", "Mudula Market"},
	},
}
