package institutions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Status of an institution listing.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusPending Status = "PENDING"
)

// Category is a directory tab. Each category except CategoryAll is backed by
// a section of the institutions page.
type Category string

const (
	CategoryAll         Category = "all"
	CategoryHospitals   Category = "hospitals"
	CategoryClinics     Category = "clinics"
	CategoryPolyclinics Category = "polyclinics"
	CategorySpecialized Category = "specialized"
	CategoryTraining    Category = "training"
	CategoryConferences Category = "conferences"
)

// Categories lists the section-backed categories in display order.
func Categories() []Category {
	return []Category{
		CategoryHospitals, CategoryClinics, CategoryPolyclinics,
		CategorySpecialized, CategoryTraining, CategoryConferences,
	}
}

// ParseCategory accepts any known category and defaults to CategoryAll.
func ParseCategory(value string) (Category, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || value == string(CategoryAll) {
		return CategoryAll, nil
	}
	for _, c := range Categories() {
		if string(c) == value {
			return c, nil
		}
	}
	return CategoryAll, fmt.Errorf("institutions: unknown category %q", value)
}

// ServiceList decodes either a single value or a list. Scalars are kept as
// their text; nested objects and empty values are dropped.
type ServiceList []string

func (s *ServiceList) UnmarshalJSON(data []byte) error {
	value, err := decodeLoose(data)
	if err != nil {
		return err
	}
	var out ServiceList
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if text := strings.TrimSpace(scalarText(item)); text != "" {
				out = append(out, text)
			}
		}
	default:
		if text := strings.TrimSpace(scalarText(v)); text != "" {
			out = ServiceList{text}
		}
	}
	*s = out
	return nil
}

// Institution is one directory entry as editors store it.
type Institution struct {
	Name       string      `json:"name"`
	Location   string      `json:"location"`
	Region     string      `json:"region"`
	Union      string      `json:"union"`
	Type       string      `json:"type"`
	Status     Status      `json:"status"`
	Phone      string      `json:"phone,omitempty"`
	Email      string      `json:"email,omitempty"`
	Services   ServiceList `json:"services,omitempty"`
	Image      string      `json:"image,omitempty"`
	Website    string      `json:"website,omitempty"`
	Conference string      `json:"conference,omitempty"`
	Category   Category    `json:"category"`
}

// UnmarshalJSON reads an entry field by field. Text fields accept any scalar
// so a number typed into a phone field does not reject the entry.
func (i *Institution) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("institutions: entry is not an object: %w", err)
	}
	if fields == nil {
		return errors.New("institutions: empty entry")
	}
	text := func(key string) string {
		raw, ok := fields[key]
		if !ok {
			return ""
		}
		value, err := decodeLoose(raw)
		if err != nil {
			return ""
		}
		return scalarText(value)
	}

	*i = Institution{
		Name:       text("name"),
		Location:   text("location"),
		Region:     text("region"),
		Union:      text("union"),
		Type:       text("type"),
		Status:     Status(text("status")),
		Phone:      text("phone"),
		Email:      text("email"),
		Image:      text("image"),
		Website:    text("website"),
		Conference: text("conference"),
		Category:   Category(text("category")),
	}
	if raw, ok := fields["services"]; ok {
		var services ServiceList
		if err := services.UnmarshalJSON(raw); err == nil {
			i.Services = services
		}
	}
	return nil
}

func decodeLoose(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func scalarText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
