package models

import "encoding/json"

// EventAttributes is the payload for type "event".
type EventAttributes struct {
	Location  string `json:"location"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Organizer string `json:"organizer"`
}

// DeathNoticeAttributes is the payload for type "deathNotice".
type DeathNoticeAttributes struct {
	DeceasedName    string  `json:"deceasedName"`
	Obituary        string  `json:"obituary"`
	FuneralDate     ISOTime `json:"funeralDate"`
	FuneralLocation string  `json:"funeralLocation"`
}

// TouristAttractionAttributes is the payload for type "touristAttraction".
type TouristAttractionAttributes struct {
	Address      string   `json:"address"`
	OpeningHours string   `json:"openingHours"`
	TicketPrice  *float64 `json:"ticketPrice"`
	ContactInfo  string   `json:"contactInfo"`
}

// DecodeAttributes parses raw against the variant shape selected by t and
// reports every missing required field. The storage layer never runs this;
// it is the boundary's strict check.
func DecodeAttributes(t LineItemType, raw []byte) (any, []FieldError) {
	switch t {
	case TypeEvent:
		var a EventAttributes
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, []FieldError{{Field: "attributes", Message: "attributes must be an event payload."}}
		}
		var errs []FieldError
		if a.Location == "" {
			errs = append(errs, requiredError("attributes.location"))
		}
		if a.StartTime == "" {
			errs = append(errs, requiredError("attributes.startTime"))
		}
		if a.EndTime == "" {
			errs = append(errs, requiredError("attributes.endTime"))
		}
		if a.Organizer == "" {
			errs = append(errs, requiredError("attributes.organizer"))
		}
		if errs != nil {
			return nil, errs
		}
		return a, nil

	case TypeDeathNotice:
		var a DeathNoticeAttributes
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, []FieldError{{Field: "attributes", Message: "attributes must be a deathNotice payload."}}
		}
		var errs []FieldError
		if a.DeceasedName == "" {
			errs = append(errs, requiredError("attributes.deceasedName"))
		}
		if a.Obituary == "" {
			errs = append(errs, requiredError("attributes.obituary"))
		}
		if a.FuneralDate.IsZero() {
			errs = append(errs, requiredError("attributes.funeralDate"))
		}
		if a.FuneralLocation == "" {
			errs = append(errs, requiredError("attributes.funeralLocation"))
		}
		if errs != nil {
			return nil, errs
		}
		return a, nil

	case TypeTouristAttraction:
		var a TouristAttractionAttributes
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, []FieldError{{Field: "attributes", Message: "attributes must be a touristAttraction payload."}}
		}
		var errs []FieldError
		if a.Address == "" {
			errs = append(errs, requiredError("attributes.address"))
		}
		if a.OpeningHours == "" {
			errs = append(errs, requiredError("attributes.openingHours"))
		}
		if a.TicketPrice == nil {
			errs = append(errs, requiredError("attributes.ticketPrice"))
		}
		if a.ContactInfo == "" {
			errs = append(errs, requiredError("attributes.contactInfo"))
		}
		if errs != nil {
			return nil, errs
		}
		return a, nil
	}

	return nil, []FieldError{enumError("type", t)}
}
