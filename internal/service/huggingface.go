package service

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/man-in-deep/sonic/internal/config"
	"github.com/man-in-deep/sonic/internal/model"
)

var ErrNoHFToken = errors.New("hugging face token not configured")

// HFClient talks to the hosted inference API for one model. Responses are
// raw image bytes; API errors come back as JSON and are surfaced as errors.
type HFClient struct {
	baseURL string
	token   string
	model   string
	http    *http.Client
}

func NewHFClient(cfg config.Config, modelID string) *HFClient {
	timeoutSec := cfg.HFTimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = 120
	}
	return &HFClient{
		baseURL: cfg.HFBaseURL,
		token:   cfg.HFToken,
		model:   modelID,
		http: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

func (c *HFClient) Model() string {
	return c.model
}

// TextToImage generates an image from a prompt alone.
func (c *HFClient) TextToImage(prompt, negativePrompt string, params model.GenerationParams) ([]byte, error) {
	body := map[string]interface{}{
		"inputs": prompt,
		"parameters": map[string]interface{}{
			"negative_prompt":     negativePrompt,
			"num_inference_steps": params.Steps,
			"guidance_scale":      params.GuidanceScale,
			"width":               params.Width,
			"height":              params.Height,
		},
	}
	if params.Seed >= 0 {
		body["parameters"].(map[string]interface{})["seed"] = params.Seed
	}
	return c.infer(body)
}

// ImageToImage generates an image guided by a reference image.
func (c *HFClient) ImageToImage(reference []byte, prompt, negativePrompt string, strength float64, params model.GenerationParams) ([]byte, error) {
	body := map[string]interface{}{
		"inputs": map[string]interface{}{
			"prompt": prompt,
			"image":  base64.StdEncoding.EncodeToString(reference),
		},
		"parameters": map[string]interface{}{
			"negative_prompt":     negativePrompt,
			"num_inference_steps": params.Steps,
			"guidance_scale":      params.GuidanceScale,
			"strength":            strength,
		},
	}
	return c.infer(body)
}

func (c *HFClient) infer(body map[string]interface{}) ([]byte, error) {
	if strings.TrimSpace(c.token) == "" {
		return nil, ErrNoHFToken
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.modelURL(), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error interface{} `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return nil, fmt.Errorf("inference status=%d model=%s error=%v", resp.StatusCode, c.model, apiErr.Error)
	}
	if len(data) == 0 {
		return nil, errors.New("inference returned no image data")
	}
	return data, nil
}

func (c *HFClient) modelURL() string {
	return c.baseURL + "/models/" + c.model
}
