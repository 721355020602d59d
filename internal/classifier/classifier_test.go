package classifier

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcript-labeler-go/internal/taxonomy"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 5, BaseDelay: time.Millisecond, Multiplier: 2}
}

// fakeOracle replays scripted responses/errors and records prompts.
type fakeOracle struct {
	responses []string
	errs      []error
	calls     int
	lastUser  string
}

func (f *fakeOracle) Complete(_ context.Context, _, user string) (string, error) {
	i := f.calls
	f.calls++
	f.lastUser = user
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("script exhausted")
}

func TestClassify_ExactCodeReturned(t *testing.T) {
	o := &fakeOracle{responses: []string{"Intro"}}
	c := New(o, fastPolicy(), quietLog())

	got := c.Classify(context.Background(), "Tell me about yourself", "", "I am a corporator")
	assert.Equal(t, "Intro", got)
	assert.Equal(t, 1, o.calls, "exactly one oracle call per question")
}

func TestClassify_ExtraneousCommentaryTolerated(t *testing.T) {
	o := &fakeOracle{responses: []string{"Thanks — that concludes the matter."}}
	c := New(o, fastPolicy(), quietLog())

	assert.Equal(t, "Thanks", c.Classify(context.Background(), "Thank you so much", "", ""))
}

func TestClassify_UnknownAnswerBecomesUnmatched(t *testing.T) {
	o := &fakeOracle{responses: []string{"Greeting"}}
	c := New(o, fastPolicy(), quietLog())

	assert.Equal(t, taxonomy.Unmatched, c.Classify(context.Background(), "hello", "", ""))
}

func TestClassify_RetriesThenSucceeds(t *testing.T) {
	o := &fakeOracle{
		errs:      []error{errors.New("rate limited"), errors.New("rate limited"), nil},
		responses: []string{"", "", "Daily_Tasks"},
	}
	c := New(o, fastPolicy(), quietLog())

	assert.Equal(t, "Daily_Tasks", c.Classify(context.Background(), "What do you do daily?", "", ""))
	assert.Equal(t, 3, o.calls)
}

func TestClassify_ExhaustedRetriesDegradeToUnmatched(t *testing.T) {
	o := &fakeOracle{}
	for i := 0; i < 10; i++ {
		o.errs = append(o.errs, errors.New("transient"))
	}
	c := New(o, fastPolicy(), quietLog())

	got := c.Classify(context.Background(), "anything", "", "")
	assert.Equal(t, taxonomy.Unmatched, got)
	assert.Equal(t, 6, o.calls, "initial attempt plus five retries")
}

func TestClassify_CancelledContextDegradesToUnmatched(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := &fakeOracle{errs: []error{errors.New("transient")}}
	c := New(o, fastPolicy(), quietLog())

	assert.Equal(t, taxonomy.Unmatched, c.Classify(ctx, "anything", "", ""))
}

func TestClassify_OutputAlwaysATaxonomyMemberWithoutWhitespace(t *testing.T) {
	cases := []string{"Intro", "  Thanks  ", "nonsense reply", "", " Unmatched ", "two words"}
	for _, raw := range cases {
		o := &fakeOracle{responses: []string{raw}}
		c := New(o, fastPolicy(), quietLog())
		got := c.Classify(context.Background(), "q", "", "")
		assert.True(t, taxonomy.IsValid(got), "raw=%q got=%q", raw, got)
		assert.NotEmpty(t, got)
		assert.NotContains(t, got, " ")
	}
}

func TestClassify_PromptRendersEmptyContextAsNone(t *testing.T) {
	o := &fakeOracle{responses: []string{"Intro"}}
	c := New(o, fastPolicy(), quietLog())
	c.Classify(context.Background(), "current question", "", "")

	assert.Contains(t, o.lastUser, "PREVIOUS QUESTION: None")
	assert.Contains(t, o.lastUser, "NEXT RESPONSE: None")
	assert.Contains(t, o.lastUser, "CURRENT QUESTION: current question")
	for _, code := range taxonomy.Codes {
		assert.Contains(t, o.lastUser, "- "+code)
	}
}

func TestDecode_FirstTokenStrictMatch(t *testing.T) {
	assert.Equal(t, "Intro", Decode("Intro"))
	assert.Equal(t, "Mother_Tongue", Decode("Mother_Tongue is the best fit"))
	assert.Equal(t, taxonomy.Unmatched, Decode("intro")) // case-sensitive
	assert.Equal(t, taxonomy.Unmatched, Decode(""))
	assert.Equal(t, "Thanks", Decode(" Thanks\n"))
}

func TestRetryPolicy_BackoffSequenceDoubles(t *testing.T) {
	p := RetryPolicy{MaxRetries: 5, BaseDelay: 2 * time.Second, Multiplier: 2}
	b := p.Backoff()

	var got []time.Duration
	for {
		d := b.NextBackOff()
		if d == backoff.Stop {
			break
		}
		got = append(got, d)
		require.Less(t, len(got), 20, "backoff did not terminate")
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, 32 * time.Second}
	assert.Equal(t, want, got, "total backoff is 62 time-units")
}

func TestRetryPolicy_FreshBackoffPerCall(t *testing.T) {
	p := fastPolicy()
	b1, b2 := p.Backoff(), p.Backoff()
	b1.NextBackOff()
	b1.NextBackOff()
	// b2 is unaffected by b1's progress.
	assert.Equal(t, p.BaseDelay, b2.NextBackOff())
}

func TestSystemPromptIsConstrained(t *testing.T) {
	assert.True(t, strings.Contains(systemPrompt, "ONE label"))
	assert.True(t, strings.Contains(systemPrompt, "ONLY the label code"))
}
