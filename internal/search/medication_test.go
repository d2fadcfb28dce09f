package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/diarycard/internal/rxnorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeLookup struct {
	mu      sync.Mutex
	queries []string
	delay   map[string]time.Duration
	err     error
}

func (f *fakeLookup) Search(ctx context.Context, name string) ([]rxnorm.Drug, error) {
	f.mu.Lock()
	f.queries = append(f.queries, name)
	wait := f.delay[name]
	err := f.err
	f.mu.Unlock()
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []rxnorm.Drug{{RxCUI: "1", Name: name + "in"}}, nil
}

func (f *fakeLookup) Formulations(context.Context, string) ([]rxnorm.Formulation, error) {
	return nil, rxnorm.ErrNoResults
}

func (f *fakeLookup) Properties(context.Context, string) (*rxnorm.Concept, error) {
	return nil, rxnorm.ErrNoResults
}

func (f *fakeLookup) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type collector struct {
	mu      sync.Mutex
	results []Result
}

func (c *collector) add(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *collector) all() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

func TestMedicationSearch_TypingBurstDispatchesOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	lookup := &fakeLookup{}
	var got collector
	s := NewMedicationSearch(lookup, 100*time.Millisecond, got.add)
	defer s.Close()

	// "a" is too short and is answered immediately without a lookup.
	for _, q := range []string{"a", "as", "asp"} {
		s.Query(q)
		time.Sleep(25 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(lookup.calls()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{"asp"}, lookup.calls())

	require.Eventually(t, func() bool { return len(got.all()) == 2 }, time.Second, 5*time.Millisecond)
	results := got.all()
	assert.ErrorIs(t, results[0].Err, ErrQueryTooShort)
	assert.Equal(t, "asp", results[1].Query)
	assert.Equal(t, "aspin", results[1].Drugs[0].Name)
}

func TestMedicationSearch_ShortQueryNoDispatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	lookup := &fakeLookup{}
	var got collector
	s := NewMedicationSearch(lookup, 20*time.Millisecond, got.add)
	defer s.Close()

	s.Query("x")
	time.Sleep(60 * time.Millisecond)

	assert.Empty(t, lookup.calls())
	results := got.all()
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Drugs)
	assert.NotNil(t, results[0].Drugs)
	assert.Equal(t, "Enter at least 2 characters to search.", results[0].Message())
}

func TestMedicationSearch_ShortQueryCancelsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	lookup := &fakeLookup{}
	var got collector
	s := NewMedicationSearch(lookup, 50*time.Millisecond, got.add)
	defer s.Close()

	s.Query("asp")
	s.Query("")
	time.Sleep(100 * time.Millisecond)

	assert.Empty(t, lookup.calls())
	results := got.all()
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestMedicationSearch_StaleResultDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	lookup := &fakeLookup{delay: map[string]time.Duration{"ser": 150 * time.Millisecond}}
	var got collector
	s := NewMedicationSearch(lookup, 10*time.Millisecond, got.add)
	defer s.Close()

	s.Query("ser")
	require.Eventually(t, func() bool { return len(lookup.calls()) == 1 }, time.Second, 2*time.Millisecond)
	s.Query("sert")

	require.Eventually(t, func() bool { return len(got.all()) >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(200 * time.Millisecond)

	results := got.all()
	require.Len(t, results, 1)
	assert.Equal(t, "sert", results[0].Query)
}

func TestMedicationSearch_ErrorMessage(t *testing.T) {
	defer goleak.VerifyNone(t)

	lookup := &fakeLookup{err: rxnorm.ErrUnavailable}
	var got collector
	s := NewMedicationSearch(lookup, 10*time.Millisecond, got.add)
	defer s.Close()

	s.Query("lithium")
	require.Eventually(t, func() bool { return len(got.all()) == 1 }, time.Second, 5*time.Millisecond)
	r := got.all()[0]
	assert.ErrorIs(t, r.Err, rxnorm.ErrUnavailable)
	assert.Equal(t, rxnorm.UserMessage(rxnorm.ErrUnavailable), r.Message())
	assert.NotNil(t, r.Drugs)
}

func TestMedicationSearch_CloseStopsRunningLookup(t *testing.T) {
	defer goleak.VerifyNone(t)

	lookup := &fakeLookup{delay: map[string]time.Duration{"lith": time.Minute}}
	var got collector
	s := NewMedicationSearch(lookup, 5*time.Millisecond, got.add)

	s.Query("lith")
	require.Eventually(t, func() bool { return len(lookup.calls()) == 1 }, time.Second, 2*time.Millisecond)
	s.Close()

	assert.Empty(t, got.all())
}

func TestSearch_Immediate(t *testing.T) {
	lookup := &fakeLookup{}

	drugs, err := Search(context.Background(), lookup, " a ")
	assert.ErrorIs(t, err, ErrQueryTooShort)
	assert.Empty(t, drugs)
	assert.Empty(t, lookup.calls())

	drugs, err = Search(context.Background(), lookup, "aspirin")
	require.NoError(t, err)
	require.Len(t, drugs, 1)
	assert.Equal(t, []string{"aspirin"}, lookup.calls())
}
