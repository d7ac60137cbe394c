package driven

import (
	"context"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
)

// PageWriter is the boundary to the external writer agent. The core
// treats it as a black box: it receives a page brief and returns the
// page body as markdown. Scout and planner behaviour, prompts, and
// transport live entirely behind this port.
type PageWriter interface {
	// WritePage produces the body for one planned page.
	WritePage(ctx context.Context, plan domain.PagePlan) (string, error)
}
