package model

import "time"

type ArtType string

const (
	ArtImpressionism ArtType = "Impressionism"
	ArtCubism        ArtType = "Cubism"
	ArtExpressionism ArtType = "Expressionism"
	ArtSurrealism    ArtType = "Surrealism"
	ArtPopArt        ArtType = "Pop Art"
	ArtRealism       ArtType = "Realism"
	ArtAbstract      ArtType = "Abstract Expressionism"
	ArtContemporary  ArtType = "Modernism/Contemporary"
)

type StrokeType string

const (
	StrokeBrush     StrokeType = "brush"
	StrokeGeometric StrokeType = "geometric"
	StrokeSmooth    StrokeType = "smooth"
	StrokeGeneral   StrokeType = "general"
)

type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// MediumProps describes how a physical medium behaves. All values are in
// [0,1] in the built-in table.
type MediumProps struct {
	Viscosity float64 `json:"viscosity"`
	Blending  float64 `json:"blending"`
	Drying    float64 `json:"drying"`
}

// Stroke is a single planned line segment. Strokes are ephemeral: each
// generation request plans its own sequence and discards it after rendering.
type Stroke struct {
	Type          StrokeType  `json:"type"`
	X             int         `json:"x"`
	Y             int         `json:"y"`
	Length        int         `json:"length"`
	Angle         float64     `json:"angle"`
	Pressure      float64     `json:"pressure"`
	Color         *RGB        `json:"color,omitempty"`
	QuantumState  float64     `json:"quantum_state"`
	Medium        MediumProps `json:"medium_properties"`
	Tunneled      bool        `json:"quantum_tunnel,omitempty"`
	EntangledWith *int        `json:"entangled_with,omitempty"`
}

// GenerationParams are the knobs sent to the hosted inference API.
type GenerationParams struct {
	Steps         int     `json:"steps"`
	GuidanceScale float64 `json:"guidance_scale"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Seed          int64   `json:"seed"`
}

// Artwork is one persisted generation record.
type Artwork struct {
	ID                 int64     `json:"id"`
	UserID             string    `json:"user_id"`
	UserPrompt         string    `json:"user_prompt"`
	ReferenceImagePath string    `json:"reference_image_path,omitempty"`
	ArtType            string    `json:"art_type"`
	MediumStyle        string    `json:"medium_style"`
	ModelUsed          string    `json:"model_used"`
	StrokeSequence     string    `json:"stroke_sequence,omitempty"`
	GenerationParams   string    `json:"generation_parameters,omitempty"`
	ImagePath          string    `json:"image_path"`
	CreationDuration   float64   `json:"creation_duration"`
	CreatedAt          time.Time `json:"created_at"`
}

// GenerateResult is the response payload of a generation request.
type GenerateResult struct {
	Success        bool    `json:"success"`
	Error          string  `json:"error,omitempty"`
	ImageB64       string  `json:"image_data,omitempty"`
	ModelUsed      string  `json:"model_used,omitempty"`
	Prompt         string  `json:"prompt,omitempty"`
	GenerationTime float64 `json:"generation_time"`
	ArtType        string  `json:"art_type"`
	MediumStyle    string  `json:"medium_style"`
	StrokeCount    int     `json:"stroke_count"`
	QuantumStrokes bool    `json:"quantum_strokes"`
	ImagePath      string  `json:"image_path,omitempty"`
}

// QuantumState is the cosmetic payload served by /api/quantum-state.
type QuantumState struct {
	Coherence            float64 `json:"coherence"`
	Entanglement         float64 `json:"entanglement"`
	TunnelingProbability float64 `json:"tunneling_probability"`
	DecayRate            float64 `json:"decay_rate"`
	Timestamp            string  `json:"timestamp"`
	Particles            int     `json:"particles"`
}

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt int64       `json:"created_at_unix_ms"`
}
