package ingest

import (
	"encoding/xml"
	"time"

	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/common"
)

// newsmlDocument là phần NewsML-G2 Event Item mà ingest cần: guid, concept
// với eventDetails. Các phần khác của document bị bỏ qua khi unmarshal.
type newsmlDocument struct {
	XMLName xml.Name       `xml:"eventItem"`
	GUID    string         `xml:"guid,attr"`
	Concept newsmlConcept  `xml:"concept"`
}

type newsmlConcept struct {
	Name         string             `xml:"name"`
	Definition   string             `xml:"definition"`
	EventDetails newsmlEventDetails `xml:"eventDetails"`
}

type newsmlEventDetails struct {
	Start       string `xml:"dates>start"`
	End         string `xml:"dates>end"`
	OccurStatus struct {
		Qcode string `xml:"qcode,attr"`
	} `xml:"occurStatus"`
	Location []struct {
		Name string `xml:"name"`
	} `xml:"location"`
}

// ParseNewsML chuẩn hóa một NewsML-G2 Event Item thành Event.
// Thời gian theo RFC 3339; thiếu end thì end = start.
func ParseNewsML(body []byte) ([]planningmodels.Event, error) {
	var doc newsmlDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, common.NewBadRequest("Payload NewsML không hợp lệ: " + err.Error())
	}
	if doc.GUID == "" {
		return nil, common.NewBadRequest("NewsML event item thiếu guid")
	}
	if doc.Concept.Name == "" {
		return nil, common.NewBadRequest("NewsML event item thiếu name")
	}

	start, err := time.Parse(time.RFC3339, doc.Concept.EventDetails.Start)
	if err != nil {
		return nil, common.NewBadRequest("NewsML dates/start không hợp lệ")
	}
	end := start
	if doc.Concept.EventDetails.End != "" {
		if parsed, err := time.Parse(time.RFC3339, doc.Concept.EventDetails.End); err == nil {
			end = parsed
		}
	}

	ev := planningmodels.Event{
		Name:       doc.Concept.Name,
		Definition: doc.Concept.Definition,
		IngestRef:  doc.GUID,
	}
	ev.Dates.Start = start.UnixMilli()
	ev.Dates.End = end.UnixMilli()
	if qcode := doc.Concept.EventDetails.OccurStatus.Qcode; qcode != "" {
		ev.OccurStatus = qcode
	}
	if len(doc.Concept.EventDetails.Location) > 0 {
		ev.Location = doc.Concept.EventDetails.Location[0].Name
	}
	return []planningmodels.Event{ev}, nil
}
