package document

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
	"sigs.k8s.io/yaml"

	"docsync/internal/api"
)

const (
	FormatOpenAPI3 = "openapi3"
	FormatSwagger2 = "swagger2"
	FormatUnknown  = "unknown"
)

// Info is what Inspect learns about a payload.
type Info struct {
	Format  string
	Title   string
	Version string
}

// Fingerprint returns the hex SHA-256 of a payload.
func Fingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Inspect parses a JSON or YAML payload and extracts its info block.
//
// Payloads that are valid YAML/JSON but neither OpenAPI 3 nor Swagger 2 are
// accepted with FormatUnknown; the document is opaque to the sync engine.
// Payloads that declare a version but fail to load are rejected.
func Inspect(payload []byte) (Info, error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return Info{}, fmt.Errorf("empty document")
	}

	data, err := yaml.YAMLToJSON(payload)
	if err != nil {
		return Info{}, fmt.Errorf("document is neither JSON nor YAML: %w", err)
	}

	var header struct {
		OpenAPI string `json:"openapi"`
		Swagger string `json:"swagger"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		// Valid YAML that is not an object, e.g. a bare list.
		return Info{Format: FormatUnknown}, nil
	}

	switch {
	case header.OpenAPI != "":
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(data)
		if err != nil {
			return Info{}, fmt.Errorf("failed to load OpenAPI %s document: %w", header.OpenAPI, err)
		}
		info := Info{Format: FormatOpenAPI3}
		if doc.Info != nil {
			info.Title = doc.Info.Title
			info.Version = doc.Info.Version
		}
		return info, nil

	case header.Swagger != "":
		var doc openapi2.T
		if err := json.Unmarshal(data, &doc); err != nil {
			return Info{}, fmt.Errorf("failed to load Swagger %s document: %w", header.Swagger, err)
		}
		return Info{
			Format:  FormatSwagger2,
			Title:   doc.Info.Title,
			Version: doc.Info.Version,
		}, nil

	default:
		return Info{Format: FormatUnknown}, nil
	}
}

// Build turns a raw payload fetched for route into a ServiceDocument.
//
// contextID may be supplied by resolvers that already know a version marker
// (an ETag, for example); when empty the payload fingerprint is used.
func Build(route api.RouteDescriptor, payload []byte, source, contextID string) (*api.ServiceDocument, error) {
	info, err := Inspect(payload)
	if err != nil {
		return nil, err
	}
	if contextID == "" {
		contextID = Fingerprint(payload)
	}

	doc := &api.ServiceDocument{
		ContextPath: route.EffectiveContextPath(),
		ContextID:   contextID,
		Name:        route.Name,
		Title:       info.Title,
		Version:     info.Version,
		Format:      info.Format,
		Source:      source,
		Payload:     payload,
		FetchedAt:   time.Now(),
	}
	if len(route.Labels) > 0 {
		doc.Labels = make(map[string]string, len(route.Labels))
		for k, v := range route.Labels {
			doc.Labels[k] = v
		}
	}
	return doc, nil
}
