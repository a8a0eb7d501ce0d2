package programs

import (
	"fmt"

	"github.com/elevateforhumanity/elevate/app/repository"
)

// Sync upserts the built-in catalog into the database so the web and API
// layers can read programs like any other record. Existing rows keep their
// ID; pricing fields are refreshed from the catalog.
func Sync(repo repository.ProgramRepository) error {
	for _, p := range catalog {
		program := p
		if err := repo.Upsert(&program); err != nil {
			return fmt.Errorf("sync program %s: %w", p.Slug, err)
		}
	}
	return nil
}
