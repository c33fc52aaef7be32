package service

import (
	"strings"
	"time"

	"github.com/iliyamo/parkspace/internal/model"
)

// applyContent copies the non-nil content fields of in onto sp.
func applyContent(sp *model.Space, in SpaceInput) error {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return validation("Title cannot be empty")
		}
		sp.Title = t
	}
	if in.Description != nil {
		sp.Description = strings.TrimSpace(*in.Description)
	}
	if in.Address != nil {
		sp.Address = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		sp.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		sp.State = strings.TrimSpace(*in.State)
	}
	if in.ZipCode != nil {
		sp.ZipCode = strings.TrimSpace(*in.ZipCode)
	}
	if in.Latitude != nil && in.Longitude != nil {
		lat, lng := *in.Latitude, *in.Longitude
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return validation("Invalid coordinates")
		}
		sp.Coordinates = model.NewGeoPoint(lat, lng)
	}

	if in.HourlyRate != nil {
		if *in.HourlyRate <= 0 {
			return validation("Hourly rate must be greater than zero")
		}
		sp.HourlyRate = *in.HourlyRate
	}
	if in.DailyRate != nil {
		if *in.DailyRate < 0 {
			return validation("Daily rate cannot be negative")
		}
		v := *in.DailyRate
		sp.DailyRate = &v
	}
	if in.Currency != nil {
		if c := strings.ToUpper(strings.TrimSpace(*in.Currency)); c != "" {
			sp.Currency = c
		}
	}
	if in.Capacity != nil {
		if *in.Capacity < 0 {
			return validation("Capacity cannot be negative")
		}
		v := *in.Capacity
		sp.Capacity = &v
	}

	if in.Amenities != nil {
		sp.Amenities = cleanList(in.Amenities, true)
	}
	if in.Images != nil {
		sp.Images = cleanList(in.Images, false)
	}

	if in.AvailabilityType != nil {
		if !in.AvailabilityType.Valid() {
			return validation("Invalid availability type")
		}
		sp.AvailabilityType = *in.AvailabilityType
	}
	if in.CustomAvailability != nil {
		windows := make(model.AvailabilityWindows, 0, len(in.CustomAvailability))
		for _, w := range in.CustomAvailability {
			w.Day = strings.ToLower(strings.TrimSpace(w.Day))
			if !validWindow(w) {
				return validation("Invalid custom availability window")
			}
			windows = append(windows, w)
		}
		sp.CustomAvailability = windows
	}
	return nil
}

// cleanList trims entries and drops blanks; dedupe keeps the first occurrence.
func cleanList(in []string, dedupe bool) model.StringList {
	out := make(model.StringList, 0, len(in))
	seen := map[string]bool{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || (dedupe && seen[v]) {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func validWindow(w model.AvailabilityWindow) bool {
	if w.Day == "" {
		return false
	}
	start, err := time.Parse("15:04", w.StartTime)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", w.EndTime)
	if err != nil {
		return false
	}
	return start.Before(end)
}
