package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/man-in-deep/sonic/internal/config"
	"github.com/man-in-deep/sonic/internal/model"
	"github.com/man-in-deep/sonic/internal/storage"
	"github.com/man-in-deep/sonic/internal/stroke"
	"github.com/man-in-deep/sonic/internal/ws"
)

const defaultModel = "stabilityai/stable-diffusion-xl-base-1.0"

// modelMapping selects the hosted model per art type.
var modelMapping = map[model.ArtType]string{
	model.ArtImpressionism: "stabilityai/stable-diffusion-xl-base-1.0",
	model.ArtCubism:        "black-forest-labs/FLUX.1-dev",
	model.ArtExpressionism: "stabilityai/stable-diffusion-3-medium-diffusers",
	model.ArtSurrealism:    "black-forest-labs/FLUX.1-dev",
	model.ArtPopArt:        "stabilityai/stable-diffusion-xl-base-1.0",
	model.ArtRealism:       "black-forest-labs/FLUX.1-schnell",
	model.ArtAbstract:      "stabilityai/stable-diffusion-3-medium-diffusers",
	model.ArtContemporary:  "black-forest-labs/FLUX.1-dev",
}

var stylePrompts = map[model.ArtType]string{
	model.ArtImpressionism: ", impressionist style, loose brushstrokes, vibrant colors, light effects",
	model.ArtCubism:        ", cubist style, geometric shapes, multiple perspectives, fragmented forms",
	model.ArtExpressionism: ", expressionist style, emotional intensity, distorted forms, bold colors",
	model.ArtSurrealism:    ", surrealist style, dreamlike, bizarre, symbolic, fantastical",
	model.ArtPopArt:        ", pop art style, bold colors, commercial art, popular culture",
	model.ArtRealism:       ", realistic style, detailed, accurate depiction, photographic",
	model.ArtAbstract:      ", abstract expressionist style, gestural, non-representational, emotional",
	model.ArtContemporary:  ", contemporary art style, experimental, conceptual, modern",
}

var mediumPrompts = map[string]string{
	"Oil Paint":        ", oil painting, rich texture, glossy finish",
	"Acrylic Paint":    ", acrylic painting, vibrant colors, matte finish",
	"Watercolor":       ", watercolor painting, transparent, soft edges",
	"Gouache":          ", gouache painting, opaque, matte finish",
	"Pastels":          ", pastel drawing, soft, chalky texture",
	"Tempera":          ", tempera painting, egg tempera, historical style",
	"Encaustic":        ", encaustic painting, wax medium, textured",
	"Fresco":           ", fresco painting, wall mural, traditional",
	"Ink Painting":     ", ink painting, brush strokes, calligraphic",
	"Pencil Art":       ", pencil drawing, graphite, detailed shading",
	"Digital Painting": ", digital art, clean lines, vibrant colors",
}

var quantumEnhancements = []string{
	"quantum-enhanced creativity",
	"stroke-by-stroke simulation",
	"physical media simulation",
	"artistic coherence",
}

// GenerateRequest carries everything one generation needs.
type GenerateRequest struct {
	UserID             string
	Prompt             string
	NegativePrompt     string
	ArtType            model.ArtType
	MediumStyle        string
	Reference          []byte
	ReferenceImagePath string
	Seed               int64
}

type ArtService struct {
	cfg   config.Config
	store *storage.Store
	files *FileService
	hub   *ws.Hub
}

func NewArtService(cfg config.Config, store *storage.Store, files *FileService, hub *ws.Hub) *ArtService {
	return &ArtService{cfg: cfg, store: store, files: files, hub: hub}
}

// Generate runs the full pipeline: prompt enhancement, hosted inference,
// medium post effects, decorative stroke pass, persistence. A remote
// failure yields a failed result, not an error; only local invariant
// violations error out.
func (s *ArtService) Generate(ctx context.Context, req GenerateRequest) (model.GenerateResult, error) {
	start := time.Now()
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	modelID := ModelFor(req.ArtType)
	enhanced := EnhancePrompt(rng, req.Prompt, req.ArtType, req.MediumStyle)
	negative := req.NegativePrompt
	if negative == "" {
		negative = NegativePromptFor(req.ArtType)
	}
	params := ParamsFor(req.ArtType, req.MediumStyle)
	params.Seed = seed

	s.hub.BroadcastEvent(model.Event{Type: "art.generation_started", Payload: map[string]string{
		"user_id": req.UserID, "model": modelID, "art_type": string(req.ArtType),
	}, CreatedAt: time.Now().UnixMilli()})

	log.Printf("generating art: model=%s art_type=%q medium=%q", modelID, req.ArtType, req.MediumStyle)

	client := NewHFClient(s.cfg, modelID)
	var raw []byte
	var err error
	if len(req.Reference) > 0 {
		var prepared []byte
		prepared, err = s.files.PrepareReference(req.Reference)
		if err == nil {
			raw, err = client.ImageToImage(prepared, enhanced, negative, 0.7, params)
		}
	} else {
		raw, err = client.TextToImage(enhanced, negative, params)
	}
	if err != nil {
		log.Printf("generation failed: %v", err)
		return model.GenerateResult{
			Success:     false,
			Error:       err.Error(),
			ArtType:     string(req.ArtType),
			MediumStyle: req.MediumStyle,
		}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return model.GenerateResult{}, fmt.Errorf("decode generated image: %w", err)
	}

	img = ApplyMediumEffects(img, req.MediumStyle, rng)
	img = OverlayArtStrokes(img, req.ArtType, rng)

	sim := stroke.NewSimulator(seed)
	strokes := sim.PlanStrokes(img, req.ArtType, req.MediumStyle)

	var buf bytes.Buffer
	if err := s.files.EncodePNG(&buf, img); err != nil {
		return model.GenerateResult{}, err
	}

	imagePath, err := s.files.SaveOutput(buf.Bytes())
	if err != nil {
		return model.GenerateResult{}, err
	}

	duration := time.Since(start).Seconds()
	s.persist(ctx, req, modelID, enhanced, params, strokes, imagePath, duration)

	result := model.GenerateResult{
		Success:        true,
		ImageB64:       base64.StdEncoding.EncodeToString(buf.Bytes()),
		ModelUsed:      modelID,
		Prompt:         enhanced,
		GenerationTime: duration,
		ArtType:        string(req.ArtType),
		MediumStyle:    req.MediumStyle,
		StrokeCount:    len(strokes),
		QuantumStrokes: true,
		ImagePath:      imagePath,
	}
	s.hub.BroadcastEvent(model.Event{Type: "art.generated", Payload: map[string]interface{}{
		"user_id": req.UserID, "model": modelID, "image_path": imagePath, "stroke_count": len(strokes),
	}, CreatedAt: time.Now().UnixMilli()})
	return result, nil
}

// persist writes the artwork record. Database trouble is logged, never
// propagated: the generated image already exists and the response must not
// depend on the database being up.
func (s *ArtService) persist(ctx context.Context, req GenerateRequest, modelID, enhanced string, params model.GenerationParams, strokes []model.Stroke, imagePath string, duration float64) {
	if s.store == nil {
		return
	}
	strokeJSON, err := json.Marshal(strokes)
	if err != nil {
		log.Printf("marshal stroke sequence: %v", err)
		strokeJSON = []byte("[]")
	}
	paramsJSON, _ := json.Marshal(params)
	art := model.Artwork{
		UserID:             orAnon(req.UserID),
		UserPrompt:         req.Prompt,
		ReferenceImagePath: req.ReferenceImagePath,
		ArtType:            string(req.ArtType),
		MediumStyle:        req.MediumStyle,
		ModelUsed:          modelID,
		StrokeSequence:     string(strokeJSON),
		GenerationParams:   string(paramsJSON),
		ImagePath:          imagePath,
		CreationDuration:   duration,
	}
	if err := s.store.SaveArtwork(ctx, art); err != nil {
		log.Printf("save artwork: %v", err)
	}
}

// PlanOnly runs the stroke core against an uploaded image without calling
// the hosted model.
func (s *ArtService) PlanOnly(imageBytes []byte, artType model.ArtType, mediumStyle string, seed int64) ([]model.Stroke, image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, nil, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim := stroke.NewSimulator(seed)
	strokes := sim.PlanStrokes(img, artType, mediumStyle)
	b := img.Bounds()
	rendered := stroke.Render(b.Dx(), b.Dy(), strokes)
	s.hub.BroadcastEvent(model.Event{Type: "strokes.planned", Payload: map[string]interface{}{
		"art_type": string(artType), "medium_style": mediumStyle, "count": len(strokes),
	}, CreatedAt: time.Now().UnixMilli()})
	return strokes, rendered, nil
}

func ModelFor(artType model.ArtType) string {
	if m, ok := modelMapping[artType]; ok {
		return m
	}
	return defaultModel
}

// EnhancePrompt appends the style suffix, the medium suffix, and one random
// flavor fragment to the user prompt.
func EnhancePrompt(rng *rand.Rand, prompt string, artType model.ArtType, mediumStyle string) string {
	enhancement := quantumEnhancements[rng.Intn(len(quantumEnhancements))]
	return fmt.Sprintf("%s%s%s, %s", prompt, stylePrompts[artType], mediumPrompts[mediumStyle], enhancement)
}

func NegativePromptFor(artType model.ArtType) string {
	negative := "blurry, distorted, ugly, bad anatomy, watermark, signature"
	switch {
	case strings.Contains(string(artType), "Realism"):
		negative += ", abstract, cartoon, anime"
	case strings.Contains(string(artType), "Abstract"):
		negative += ", photorealistic, realistic"
	}
	return negative
}

// ParamsFor translates art type and medium into inference parameters.
func ParamsFor(artType model.ArtType, mediumStyle string) model.GenerationParams {
	params := model.GenerationParams{
		Steps:         30,
		GuidanceScale: 7.5,
		Width:         1024,
		Height:        1024,
		Seed:          -1,
	}
	switch artType {
	case model.ArtRealism, model.ArtImpressionism:
		params.Steps = 40
		params.GuidanceScale = 8.0
	case model.ArtAbstract, model.ArtSurrealism:
		params.Steps = 25
		params.GuidanceScale = 9.0
	}
	switch mediumStyle {
	case "Watercolor":
		params.GuidanceScale = 6.5
	case "Oil Paint":
		params.Steps = 35
	}
	return params
}

func orAnon(userID string) string {
	if strings.TrimSpace(userID) == "" {
		return "anonymous"
	}
	return userID
}
