package pusula

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// Text is a free-text form value. The empty string marshals as null so
// that missing text and missing numbers look the same to the backend.
type Text string

// MarshalJSON implements json.Marshaler. HTML characters are written as
// is so the prompt shows the model what the user typed.
func (t Text) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(string(t)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Request is the sample, soil, climate, location and constraint data a
// recommendation is asked for. Every field is optional. Absent fields
// marshal as null, which the backend reads as "not given". Field order
// follows the web form, so the prompt lists them in the same order.
type Request struct {
	// Sample.
	SampleCode     Text   `json:"sample_code" validate:"omitempty,max=100"`
	SampleDate     Text   `json:"sample_date" validate:"omitempty,max=50"`
	AnalysisDate   Text   `json:"analysis_date" validate:"omitempty,max=50"`
	Province       Text   `json:"province" validate:"omitempty,max=50"`
	District       Text   `json:"district" validate:"omitempty,max=100"`
	SampleDepth    Number `json:"sample_depth" validate:"omitempty,gte=0"`
	LaboratoryName Text   `json:"laboratory_name" validate:"omitempty,max=100"`

	// Soil, usually measured.
	PH                          Number `json:"pH" validate:"omitempty,gte=0,lte=14"`
	OrganicMatter               Number `json:"organic_matter" validate:"omitempty,gte=0,lte=100"`
	Phosphorus                  Number `json:"phosphorus_P" validate:"omitempty,gte=0"`
	Potassium                   Number `json:"potassium_K" validate:"omitempty,gte=0"`
	EC                          Number `json:"ec" validate:"omitempty,gte=0"`
	Lime                        Number `json:"lime_caCO3" validate:"omitempty,gte=0,lte=100"`
	SoilTexture                 Text   `json:"soil_texture" validate:"omitempty,max=100"`
	Nitrogen                    Number `json:"nitrogen_N" validate:"omitempty,gte=0"`
	EvaluationLevel             Text   `json:"evaluation_level" validate:"omitempty,max=100"`
	FertilizationRecommendation Text   `json:"fertilization_recommendation" validate:"omitempty,max=100"`

	// Soil, optional laboratory values.
	Calcium       Number `json:"calcium_Ca"`
	Magnesium     Number `json:"magnesium_Mg"`
	Sulfur        Number `json:"sulfur_S"`
	Iron          Number `json:"iron_Fe"`
	Zinc          Number `json:"zinc_Zn"`
	Manganese     Number `json:"manganese_Mn"`
	Copper        Number `json:"copper_Cu"`
	Boron         Number `json:"boron_B"`
	CEC           Number `json:"cec" validate:"omitempty,gte=0"`
	TotalSalt     Number `json:"total_salt"`
	SAR           Number `json:"sar"`
	ESP           Number `json:"esp"`
	OrganicCarbon Number `json:"organic_carbon_C"`
	SoilMoisture  Number `json:"soil_moisture"`
	BulkDensity   Number `json:"bulk_density"`

	// Climate.
	AvgTempC     Number `json:"avg_temp_c"`
	MinTempC     Number `json:"min_temp_c"`
	MaxTempC     Number `json:"max_temp_c"`
	RainfallMM   Number `json:"rainfall_mm" validate:"omitempty,gte=0"`
	HumidityPct  Number `json:"humidity_pct" validate:"omitempty,gte=0,lte=100"`
	DroughtIndex Number `json:"drought_index"`

	// Location and time.
	Country Text   `json:"country" validate:"omitempty,max=50"`
	Lat     Number `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon     Number `json:"lon" validate:"omitempty,gte=-180,lte=180"`
	Season  Text   `json:"season" validate:"omitempty,oneof=ilkbahar yaz sonbahar kış"`
	Month   Number `json:"month" validate:"omitempty,min=1,max=12"`

	// Constraints.
	Irrigation   Text `json:"irrigation" validate:"omitempty,oneof=yok az orta iyi"`
	PreviousCrop Text `json:"previous_crop" validate:"omitempty,max=100"`
	Goal         Text `json:"goal" validate:"omitempty,max=200"`
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// Sanitize strips markup and surrounding whitespace from the free-text
// fields and derives the season from the month when only the month is
// given.
func (r *Request) Sanitize() {
	for _, t := range []*Text{
		&r.SampleCode, &r.SampleDate, &r.AnalysisDate, &r.Province,
		&r.District, &r.LaboratoryName, &r.SoilTexture, &r.EvaluationLevel,
		&r.FertilizationRecommendation, &r.Country, &r.Season,
		&r.Irrigation, &r.PreviousCrop, &r.Goal,
	} {
		*t = Text(strings.TrimSpace(htmlTag.ReplaceAllString(string(*t), "")))
	}
	if r.Season == "" && r.Month.Valid {
		r.Season = Text(SeasonOf(int(r.Month.Value)))
	}
}

// SeasonOf returns the Turkish season name for a calendar month (1-12).
func SeasonOf(month int) string {
	switch {
	case month >= 3 && month <= 5:
		return "ilkbahar"
	case month >= 6 && month <= 8:
		return "yaz"
	case month >= 9 && month <= 11:
		return "sonbahar"
	default:
		return "kış"
	}
}
