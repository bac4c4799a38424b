package profile

import (
	"context"
	"strings"

	"github.com/nikogura/ats-cv/pkg/source"
	"github.com/pkg/errors"
)

// Load fetches a profile from a file path or URL, parses and validates it.
func Load(ctx context.Context, input string) (p Profile, err error) {
	var data []byte
	data, err = source.Fetch(ctx, input)
	if err != nil {
		err = errors.Wrapf(err, "failed to read profile: %s", input)
		return p, err
	}

	p, err = Parse(data, FormatFromPath(input))
	if err != nil {
		err = errors.Wrapf(err, "failed to parse profile: %s", input)
		return p, err
	}

	err = p.Validate()
	if err != nil {
		err = errors.Wrap(err, "profile validation failed")
		return p, err
	}

	return p, err
}

// Validate checks that the mandatory fields are present.
func (p *Profile) Validate() (err error) {
	if strings.TrimSpace(p.Personal.Name) == "" {
		err = &ValidationError{Field: "personal.name"}
		return err
	}

	if strings.TrimSpace(p.Personal.Title) == "" {
		err = &ValidationError{Field: "personal.title"}
		return err
	}

	return err
}
