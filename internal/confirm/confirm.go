package confirm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roandegraaf/ha-mcp/internal/haclient"
	"github.com/roandegraaf/ha-mcp/internal/observe"
	"github.com/roandegraaf/ha-mcp/internal/yamlutil"
)

// ErrRejected means the user declined the change (or the fallback policy
// declined it for them). The mutation must not be performed.
var ErrRejected = errors.New("change rejected, not applied")

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionImport Action = "IMPORT"
	ActionCall   Action = "CALL"
)

// Preview describes a pending mutation for the user: what will change, the
// proposed configuration, and any dry-run validation verdict.
type Preview struct {
	Action       Action
	ResourceType string
	Identifier   string
	Config       any
	Validation   *haclient.ValidationResult
}

// Decision is the tri-state outcome of soliciting the user.
type Decision int

const (
	Approved Decision = iota
	Rejected
	// Unsupported means the client cannot be asked (no elicitation support
	// or the request failed); the configured default applies.
	Unsupported
)

// Solicitor puts a rendered preview in front of the user and reports their
// decision.
type Solicitor interface {
	Solicit(ctx context.Context, message string) (Decision, error)
}

// Orchestrator wraps every mutation in preview + solicitation. A validation
// failure in the preview does not block: the user sees it and decides.
type Orchestrator struct {
	solicitor        Solicitor
	approveByDefault bool
	log              *slog.Logger
}

func NewOrchestrator(s Solicitor, approveByDefault bool, log *slog.Logger) *Orchestrator {
	return &Orchestrator{solicitor: s, approveByDefault: approveByDefault, log: log}
}

// Confirm returns nil when the change may proceed and ErrRejected when it
// may not. bypass skips solicitation entirely.
func (o *Orchestrator) Confirm(ctx context.Context, p Preview, bypass bool) error {
	if bypass {
		o.log.Info("confirmation bypassed",
			"action", string(p.Action), "resource", p.ResourceType, "id", p.Identifier)
		observe.Confirmations.WithLabelValues("bypassed").Inc()
		return nil
	}

	message, err := Render(p)
	if err != nil {
		return err
	}

	decision, err := o.solicitor.Solicit(ctx, message)
	if err != nil {
		o.log.Warn("solicitation failed, applying fallback", "error", err)
		decision = Unsupported
	}

	switch decision {
	case Approved:
		observe.Confirmations.WithLabelValues("approved").Inc()
		return nil
	case Rejected:
		observe.Confirmations.WithLabelValues("rejected").Inc()
		o.log.Info("change rejected by user",
			"action", string(p.Action), "resource", p.ResourceType, "id", p.Identifier)
		return ErrRejected
	default:
		if o.approveByDefault {
			observe.Confirmations.WithLabelValues("default_approved").Inc()
			o.log.Warn("client cannot confirm, proceeding per configuration",
				"action", string(p.Action), "resource", p.ResourceType, "id", p.Identifier)
			return nil
		}
		observe.Confirmations.WithLabelValues("default_rejected").Inc()
		o.log.Info("client cannot confirm, denying per configuration",
			"action", string(p.Action), "resource", p.ResourceType, "id", p.Identifier)
		// Callers cannot tell this apart from an explicit rejection.
		return ErrRejected
	}
}

// Render produces the markdown preview shown to the user.
func Render(p Preview) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s %s: %s\n", p.Action, p.ResourceType, p.Identifier)

	if p.Config != nil {
		text, err := yamlutil.Marshal(p.Config)
		if err != nil {
			return "", err
		}
		b.WriteString("\n```yaml\n")
		b.WriteString(text)
		b.WriteString("```\n")
	}

	if p.Validation != nil {
		verdict := "PASSED"
		if !p.Validation.Valid {
			verdict = "FAILED"
		}
		fmt.Fprintf(&b, "\n### Validation: %s\n", verdict)
		if len(p.Validation.Errors) > 0 {
			b.WriteString("\n**Errors:**\n")
			for _, e := range p.Validation.Errors {
				fmt.Fprintf(&b, "- %s\n", e)
			}
		}
		if len(p.Validation.Warnings) > 0 {
			b.WriteString("\n**Warnings:**\n")
			for _, w := range p.Validation.Warnings {
				fmt.Fprintf(&b, "- %s\n", w)
			}
		}
	}

	b.WriteString("\nApply this change?")
	return b.String(), nil
}
