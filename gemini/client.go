package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/pusula"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ pusula.Recommender = (*Client)(nil)

// Client implements [pusula.Recommender] for the Google Gemini API.
type Client struct {
	client      *genai.Client
	model       string
	temperature *float32
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemma-3-27b-it.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the sampling temperature. The model default is
// used when not set.
func WithTemperature(t float32) Option {
	return func(c *Client) { c.temperature = &t }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Model returns the model ID requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Recommend sends a streaming request to the Gemini API and returns a
// [pusula.ChunkStream] over the generated text.
func (c *Client) Recommend(ctx context.Context, req pusula.Request) (pusula.ChunkStream, error) {
	prompt, err := Prompt(req)
	if err != nil {
		return nil, err
	}
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	// Gemma models reject system instructions and tools, so the whole
	// instruction travels in the user turn.
	config := &genai.GenerateContentConfig{Temperature: c.temperature}

	seq := c.client.Models.GenerateContentStream(ctx, c.model, contents, config)
	return newStream(ctx, seq), nil
}

// Prompt renders the instruction sent to the model for req. Absent
// fields appear as null in the embedded input document.
func Prompt(req pusula.Request) (string, error) {
	var inputs bytes.Buffer
	enc := json.NewEncoder(&inputs)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(req); err != nil {
		return "", fmt.Errorf("gemini: encode inputs: %w", err)
	}
	return promptHeader + inputs.String(), nil
}

const promptHeader = `Sen bir ziraat karar-destek asistanısın.
Amaç: Verilen toprak + iklim + kısıt parametrelerine göre en uygun ürünleri öner.

ÖNEMLİ: Tüm parametreler OPSİYONEL'dir. Eğer bir parametre null ise, o parametre verilmemiş demektir.

KULLANILAN PARAMETRELER (girdi alanları - hepsi opsiyonel):
A) Toprak: soil_texture, pH, ec, organic_matter, nitrogen_N, phosphorus_P, potassium_K, lime_caCO3, cec
B) İklim: avg_temp_c, min_temp_c, max_temp_c, rainfall_mm, humidity_pct, drought_index
C) Konum/Zaman: country, province, district, lat (enlem), lon (boylam), season (mevsim), month (ay)
   - lat ve lon verilmişse, bu koordinatlara göre bölgenin iklim özelliklerini dikkate al
   - season ve month verilmişse, ekim zamanlaması için kullan
   - Eğer sadece lat/lon verilmişse, o bölgenin tipik iklim verilerini varsay
D) Kısıtlar: irrigation, previous_crop, goal

KURALLAR:
- Cevap Türkçe olacak.
- Çıktı SADECE JSON olacak (başka açıklama yazma).
- JSON şeması:
  {
    "primary_crop": "string",
    "alternatives": ["string", "string", "string"],
    "confidence": 0-100,
    "reasons": ["..."],
    "risks": ["..."],
    "quick_actions": ["..."],
    "missing_inputs": ["..."],
    "assumptions": ["..."]
  }
- Eğer bazı girdiler null ise, bunları "missing_inputs" içine yaz.
- Eksik veriler için makul varsayımlar yap ve bunları "assumptions" içine yaz.
- Verilen parametrelere göre en uygun ürün önerisini yap.
- Önerilerde 'goal' ve 'irrigation' alanlarını (varsa) mutlaka dikkate al.
- 'previous_crop' verilmişse münavebe mantığıyla aynı ürün tekrarına temkinli yaklaş.
- Sadece verilen parametrelere göre değerlendirme yap, eksik olanlar için varsayım yap.
- Eğer lat (enlem) ve lon (boylam) verilmişse, bu koordinatlara göre:
  * Bölgenin iklim özelliklerini (sıcaklık, yağış, nem) dikkate al
  * Bölgenin rakım ve topoğrafya özelliklerini değerlendir
  * O bölgeye özgü tarım uygulamalarını öner
  * Mevsim (season) ve ay (month) bilgisi varsa, ekim zamanlaması için kullan

GİRDİ (JSON - null değerler verilmemiş parametreleri gösterir):
`
