package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/shoreline/internal/capture"
	"github.com/JaimeStill/shoreline/pkg/formatting"
)

// AgentClassifier asks a go-agents vision model to identify the product in
// the contribution photos.
type AgentClassifier struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// NewAgentClassifier creates a classifier from a finalized agent configuration.
func NewAgentClassifier(cfg gaconfig.AgentConfig, logger *slog.Logger) *AgentClassifier {
	return &AgentClassifier{
		cfg:    cfg,
		logger: logger.With("system", "suggest-agent"),
	}
}

func (c *AgentClassifier) Suggest(ctx context.Context, req Request) (Suggestion, error) {
	a, err := agent.New(&c.cfg)
	if err != nil {
		return Suggestion{}, fmt.Errorf("create agent: %w", err)
	}

	images, slots := visionImages(req.Images)
	if len(images) == 0 {
		return Suggestion{}, ErrMissingProduct
	}

	resp, err := a.Vision(ctx, Prompt(req, slots), images)
	if err != nil {
		return Suggestion{}, fmt.Errorf("vision call: %w", err)
	}

	parsed, err := formatting.Parse[any](resp.Content())
	if err != nil {
		return Suggestion{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	s, err := decodeResponse(parsed)
	if err != nil {
		return Suggestion{}, err
	}

	c.logger.InfoContext(
		ctx, "vision suggestion parsed",
		"request_id", req.ID,
		"images", len(images),
	)
	return s, nil
}

// visionSlots are the photos useful for identifying a product, in the order
// they are sent.
var visionSlots = []capture.Slot{
	capture.SlotProduct,
	capture.SlotRecycling,
	capture.SlotManufacturer,
}

func visionImages(images capture.Images) ([]string, []capture.Slot) {
	uris := make([]string, 0, len(visionSlots))
	slots := make([]capture.Slot, 0, len(visionSlots))
	for _, slot := range visionSlots {
		if p := images.Preview(slot); p != "" {
			uris = append(uris, p)
			slots = append(slots, slot)
		}
	}
	return uris, slots
}

// Prompt builds the vision instruction for a request. The images are
// described in the order they are attached.
func Prompt(req Request, slots []capture.Slot) string {
	var b strings.Builder

	b.WriteString("You are helping volunteers catalogue plastic waste found on beaches.\n")
	b.WriteString("Identify the product shown in the attached photos.\n\n")

	b.WriteString("Attached images, in order:\n")
	for i, slot := range slots {
		fmt.Fprintf(&b, "%d. %s\n", i+1, slotDescription(slot))
	}

	if req.Location != nil {
		fmt.Fprintf(
			&b,
			"\nThe item was found near latitude %.5f, longitude %.5f. Use this only to disambiguate regional brands.\n",
			req.Location.Latitude, req.Location.Longitude,
		)
	}

	b.WriteString("\nRespond with a single JSON object and nothing else:\n")
	b.WriteString(`{"brand": string|null, "manufacturer": string|null, "plasticType": string|null}`)
	b.WriteString("\nUse null for anything you cannot read or infer with confidence. ")
	b.WriteString("plasticType should be a resin identification code such as \"PET (1)\" or \"HDPE (2)\".\n")

	return b.String()
}

func slotDescription(slot capture.Slot) string {
	switch slot {
	case capture.SlotProduct:
		return "the front of the product"
	case capture.SlotRecycling:
		return "the recycling symbol or resin code"
	case capture.SlotManufacturer:
		return "the manufacturer or company details"
	default:
		return string(slot)
	}
}
