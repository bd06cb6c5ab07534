package llm

import (
	"context"
	"time"
)

// StubProvider returns a canned briefing for local development.
type StubProvider struct {
	Delay time.Duration
}

var _ Provider = StubProvider{}

func (s StubProvider) GenerateText(ctx context.Context, _ string) (string, error) {
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", &Error{Kind: KindOther, Err: ctx.Err()}
		case <-time.After(s.Delay):
		}
	}
	return stubBriefing, nil
}

const stubBriefing = `**Blockers**
- Staging access is still pending for the load tests.

**Achievements**
- Login fix shipped; migration drafted.

**Focus for today**
- Review open pull requests and start the load test.

**Sentiment**
- Mostly green, one yellow.

**Action items**
- Unblock staging access before noon.`
