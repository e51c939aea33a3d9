package intake

import (
	"context"

	"github.com/angelmondragon/castcall-backend/pkg/metrics"
)

// SubmitSponsor relays a sponsorship inquiry to the admin with reply-to set to the inquirer.
// Nothing is stored; a failed send is logged and the caller still sees success.
func (p *Pipeline) SubmitSponsor(ctx context.Context, inq SponsorInquiry) (*Result, error) {
	inq = normalizeInquiry(inq)
	if err := validateFields(inq); err != nil {
		p.metrics.Submission(KindSponsor, metrics.OutcomeRejected)
		return nil, err
	}

	started := p.now()
	msg, err := sponsorMessage(p.adminEmail, inq)
	p.dispatch(context.WithoutCancel(ctx), metrics.RecipientAdmin, msg, err)

	p.metrics.Submission(KindSponsor, metrics.OutcomeAccepted)
	p.metrics.ObserveDuration(KindSponsor, p.now().Sub(started))

	return &Result{
		Success:   true,
		Message:   sponsorSuccessMessage,
		FileLinks: []string{},
	}, nil
}
