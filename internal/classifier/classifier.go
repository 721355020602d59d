// Package classifier assigns one canonical taxonomy code to each interview
// question via an external classification oracle, with bounded retries and
// strict output decoding. Classification is fail-soft: every path returns a
// taxonomy member, never an error.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"transcript-labeler-go/internal/taxonomy"
)

const systemPrompt = "You label interview questions into ONE label from a fixed set. " +
	"Return ONLY the label code, nothing else."

const userPromptTemplate = `Task: Choose ONE best label code for the CURRENT QUESTION from the allowed list.

Allowed label codes:
%s

Context for disambiguation (optional to use):
- PREVIOUS QUESTION: %s
- CURRENT QUESTION: %s
- NEXT RESPONSE: %s

Output format:
Return ONLY one of the allowed label codes above (exact case), or "Unmatched".`

type Classifier struct {
	oracle Oracle
	policy RetryPolicy
	log    *logrus.Entry
}

func New(oracle Oracle, policy RetryPolicy, log *logrus.Entry) *Classifier {
	return &Classifier{oracle: oracle, policy: policy, log: log}
}

// Classify labels one question using the previous question and the following
// response as context. On any terminal failure, including retry exhaustion
// and context cancellation, it returns taxonomy.Unmatched; it never raises
// past its own boundary.
func (c *Classifier) Classify(ctx context.Context, question, prevQuestion, nextResponse string) string {
	user := buildPrompt(question, prevQuestion, nextResponse)

	var raw string
	attempts := 0
	op := func() error {
		attempts++
		out, err := c.oracle.Complete(ctx, systemPrompt, user)
		if err != nil {
			return err
		}
		raw = out
		return nil
	}

	bo := backoff.WithContext(c.policy.Backoff(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		// Observably identical to the oracle answering "Unmatched"; the warn
		// log is the only place exhaustion is distinguishable.
		c.log.WithError(err).WithField("attempts", attempts).Warn("oracle call failed, labeling Unmatched")
		return taxonomy.Unmatched
	}
	return Decode(raw)
}

func buildPrompt(question, prevQuestion, nextResponse string) string {
	return fmt.Sprintf(userPromptTemplate,
		taxonomy.PromptEnum(),
		orNone(prevQuestion),
		strings.TrimSpace(question),
		orNone(nextResponse))
}

func orNone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "None"
	}
	return s
}

// Decode reduces a free-text oracle response to a taxonomy code: normalize
// non-breaking spaces, trim, keep the first whitespace-delimited token, and
// require an exact case-sensitive match. Anything else is Unmatched, so
// extraneous commentary in the response is tolerated.
func Decode(raw string) string {
	text := strings.TrimSpace(strings.ReplaceAll(raw, " ", " "))
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return taxonomy.Unmatched
	}
	if taxonomy.IsValid(fields[0]) {
		return fields[0]
	}
	return taxonomy.Unmatched
}
