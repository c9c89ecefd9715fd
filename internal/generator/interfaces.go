package generator

import "github.com/toyz/arrow/internal/models"

// CodeGenerator renders ordered declarations into a wiring file
type CodeGenerator interface {
	Generate(decls []models.Declaration, target models.Target) (*models.GeneratedFile, error)
}

var _ CodeGenerator = (*Generator)(nil)
