package ports

import "github.com/bnema/odoo-worksheet-cli/internal/domain"

type LayoutSelector interface {
	Select(tmpl domain.Template) (domain.Layout, error)
}

type ArchRenderer interface {
	Render(tmpl domain.Template, layout domain.Layout) (string, error)
}
