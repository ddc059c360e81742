package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

const schemaBase = "https://survivors.local/schemas/"

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// Request body schemas, by file name.
const (
	schemaRegister = "register.json"
	schemaLocation = "location.json"
	schemaTrade    = "trade.json"
)

// schemaSet holds the compiled request body schemas.
type schemaSet map[string]*jsonschema.Schema

// compileSchemas compiles every embedded schema. Schemas may reference each
// other by file name.
func compileSchemas() (schemaSet, error) {
	entries, err := fs.ReadDir(schemaFiles, "schemas")
	if err != nil {
		return nil, fmt.Errorf("reading schemas: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for _, e := range entries {
		data, err := schemaFiles.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading schema %s: %w", e.Name(), err)
		}
		if err := c.AddResource(schemaBase+e.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("adding schema %s: %w", e.Name(), err)
		}
	}

	set := make(schemaSet, len(entries))
	for _, e := range entries {
		s, err := c.Compile(schemaBase + e.Name())
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", e.Name(), err)
		}
		set[e.Name()] = s
	}
	return set, nil
}

// decode reads the request body, validates it against the named schema and
// decodes it into target.
func (s schemaSet) decode(w http.ResponseWriter, r *http.Request, name string, target any) error {
	defer r.Body.Close()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return badRequest("could not read request body")
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return badRequest("request body is not valid JSON")
	}

	schema, ok := s[name]
	if !ok {
		return fmt.Errorf("unknown schema %s", name)
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return badRequest(describeViolation(verr))
		}
		return fmt.Errorf("validating request body: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}

// describeViolation reports the deepest cause of a validation failure.
func describeViolation(verr *jsonschema.ValidationError) string {
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	where := leaf.InstanceLocation
	if where == "" {
		where = "/"
	}
	return fmt.Sprintf("invalid request body at %s: %s", where, leaf.Message)
}
