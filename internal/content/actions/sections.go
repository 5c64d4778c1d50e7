package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

var ErrNotObject = errors.New("content must be a JSON object")

// ParseDocument decodes raw into a section document. Anything other than a
// JSON object is rejected.
func ParseDocument(raw []byte) (domain.Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrNotObject
	}
	var doc domain.Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, ErrNotObject
	}
	if dec.More() {
		return nil, ErrNotObject
	}
	return doc, nil
}

// UpdateSiteContent replaces the whole document stored under key. Two
// concurrent saves of the same key both succeed and the later one wins.
func (a *Actions) UpdateSiteContent(ctx context.Context, key string, doc domain.Document) Result {
	var f *form
	if !domain.ValidSectionKey(key) || doc == nil {
		f = newForm(nil)
		if !domain.ValidSectionKey(key) {
			f.errs["section_key"] = "must start with a lowercase letter and contain only a-z, 0-9, _ or -"
		}
		if doc == nil {
			f.errs["content"] = ErrNotObject.Error()
		}
	}
	return a.write(ctx, domain.TableSiteContent, domain.OpUpdate, f, nil, func() (string, error) {
		sec := domain.ContentSection{SectionKey: key, Content: doc}
		return key, a.store.UpsertSection(ctx, &sec)
	})
}

// updateSection validates a typed section form, then upserts its document.
func (a *Actions) updateSection(ctx context.Context, key string, f *form, input any, doc domain.Document) Result {
	return a.write(ctx, domain.TableSiteContent, domain.OpUpdate, f, input, func() (string, error) {
		sec := domain.ContentSection{SectionKey: key, Content: doc}
		return key, a.store.UpsertSection(ctx, &sec)
	})
}

type heroInput struct {
	Title           string `form:"title" validate:"required,max=200"`
	Subtitle        string `form:"subtitle" validate:"max=500"`
	CTAText         string `form:"cta_text" validate:"max=60"`
	CTALink         string `form:"cta_link" validate:"omitempty,max=500,imageref"`
	BackgroundImage string `form:"background_image" validate:"omitempty,max=1000,imageref"`
}

func (a *Actions) UpdateHeroContent(ctx context.Context, values url.Values) Result {
	f := newForm(values)
	in := heroInput{
		Title:           f.str("title"),
		Subtitle:        f.str("subtitle"),
		CTAText:         f.str("cta_text"),
		CTALink:         f.str("cta_link"),
		BackgroundImage: f.str("background_image"),
	}
	return a.updateSection(ctx, domain.SectionHero, f, in, domain.Document{
		"title":            in.Title,
		"subtitle":         in.Subtitle,
		"cta_text":         in.CTAText,
		"cta_link":         in.CTALink,
		"background_image": in.BackgroundImage,
	})
}

type aboutInput struct {
	Title       string   `form:"title" validate:"required,max=200"`
	Description string   `form:"description" validate:"max=5000"`
	Mission     string   `form:"mission" validate:"max=2000"`
	Vision      string   `form:"vision" validate:"max=2000"`
	Image       string   `form:"image" validate:"omitempty,max=1000,imageref"`
	Values      []string `form:"values" validate:"max=20,dive,max=200"`
}

func (a *Actions) UpdateAboutContent(ctx context.Context, values url.Values) Result {
	f := newForm(values)
	in := aboutInput{
		Title:       f.str("title"),
		Description: f.str("description"),
		Mission:     f.str("mission"),
		Vision:      f.str("vision"),
		Image:       f.str("image"),
		Values:      f.list("values"),
	}
	return a.updateSection(ctx, domain.SectionAbout, f, in, domain.Document{
		"title":       in.Title,
		"description": in.Description,
		"mission":     in.Mission,
		"vision":      in.Vision,
		"image":       in.Image,
		"values":      in.Values,
	})
}

type contactInput struct {
	Phone    string `form:"phone" validate:"required,phone"`
	Email    string `form:"email" validate:"omitempty,email"`
	WhatsApp string `form:"whatsapp" validate:"omitempty,phone"`
	Address  string `form:"address" validate:"max=500"`
	Hours    string `form:"hours" validate:"max=200"`
}

func (a *Actions) UpdateContactInfo(ctx context.Context, values url.Values) Result {
	f := newForm(values)
	in := contactInput{
		Phone:    f.str("phone"),
		Email:    f.str("email"),
		WhatsApp: f.str("whatsapp"),
		Address:  f.str("address"),
		Hours:    f.str("hours"),
	}
	return a.updateSection(ctx, domain.SectionContact, f, in, domain.Document{
		"phone":    in.Phone,
		"email":    in.Email,
		"whatsapp": in.WhatsApp,
		"address":  in.Address,
		"hours":    in.Hours,
	})
}

var socialNetworks = []string{"facebook", "instagram", "pinterest", "linkedin", "youtube"}

type footerInput struct {
	Tagline   string            `form:"tagline" validate:"max=300"`
	Copyright string            `form:"copyright" validate:"max=200"`
	Social    map[string]string `form:"social" validate:"dive,omitempty,http_url"`
}

func (a *Actions) UpdateFooterContent(ctx context.Context, values url.Values) Result {
	f := newForm(values)
	in := footerInput{
		Tagline:   f.str("tagline"),
		Copyright: f.str("copyright"),
		Social:    map[string]string{},
	}
	social := domain.Document{}
	for _, network := range socialNetworks {
		if link := f.str(network); link != "" {
			in.Social[network] = link
			social[network] = link
		}
	}
	return a.updateSection(ctx, domain.SectionFooter, f, in, domain.Document{
		"tagline":   in.Tagline,
		"copyright": in.Copyright,
		"social":    social,
	})
}

type statsInput struct {
	ProjectsCompleted int `form:"projects_completed" validate:"min=0,max=1000000"`
	HappyClients      int `form:"happy_clients" validate:"min=0,max=1000000"`
	YearsExperience   int `form:"years_experience" validate:"min=0,max=200"`
	Awards            int `form:"awards" validate:"min=0,max=10000"`
}

func (a *Actions) UpdateStatsContent(ctx context.Context, values url.Values) Result {
	f := newForm(values)
	in := statsInput{
		ProjectsCompleted: f.int("projects_completed", 0),
		HappyClients:      f.int("happy_clients", 0),
		YearsExperience:   f.int("years_experience", 0),
		Awards:            f.int("awards", 0),
	}
	return a.updateSection(ctx, domain.SectionStats, f, in, domain.Document{
		"projects_completed": in.ProjectsCompleted,
		"happy_clients":      in.HappyClients,
		"years_experience":   in.YearsExperience,
		"awards":             in.Awards,
	})
}
