package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

type generatorFake struct {
	answer     string
	err        error
	lastPrompt string
	lastTokens int
}

func (f *generatorFake) Generate(_ context.Context, prompt string, maxTokens int) (string, error) {
	f.lastPrompt = prompt
	f.lastTokens = maxTokens
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestAnswerUseCase(generator *generatorFake) *AnswerUseCase {
	retriever := newTestRetriever(testCorpus(), testRuleSet(), &embedderFake{vector: []float32{0.1}},
		&indexFake{neighbors: []domain.Neighbor{{Position: 0, Score: 0.9}}}, RetrievalConfig{})
	return NewAnswerUseCase(retriever, generator, 1024)
}

func TestAskReturnsAnswerWithSources(t *testing.T) {
	generator := &generatorFake{answer: "제29조에 따르면 교육을 하여야 합니다."}
	uc := newTestAnswerUseCase(generator)

	answer, err := uc.Ask(context.Background(), "안전보건교육 의무가 있나요?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Text != generator.answer {
		t.Fatalf("unexpected answer %q", answer.Text)
	}
	if len(answer.Sources) == 0 {
		t.Fatalf("expected provenance on the answer")
	}
	if generator.lastTokens != 1024 {
		t.Fatalf("expected max tokens forwarded, got %d", generator.lastTokens)
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	uc := newTestAnswerUseCase(&generatorFake{answer: "x"})

	for _, question := range []string{"", "   ", "\n\t"} {
		if _, err := uc.Ask(context.Background(), question); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("question %q: expected ErrInvalidInput, got %v", question, err)
		}
	}
}

func TestAskPropagatesGeneratorFailure(t *testing.T) {
	cause := errors.New("model overloaded")
	uc := newTestAnswerUseCase(&generatorFake{err: cause})

	_, err := uc.Ask(context.Background(), "질문")
	if !errors.Is(err, cause) {
		t.Fatalf("expected generator error propagated, got %v", err)
	}
}

func TestAskEmptyBundleStillGenerates(t *testing.T) {
	// No rules fire and the index is down: the prompt goes out with an
	// empty context section and instruction 3 handles the rest.
	retriever := newTestRetriever(domain.NewCorpus(nil), domain.RuleSet{},
		&embedderFake{err: errors.New("down")}, &indexFake{}, RetrievalConfig{})
	generator := &generatorFake{answer: "해당 내용은 제공된 조문에서 찾지 못했습니다."}
	uc := NewAnswerUseCase(retriever, generator, 0)

	answer, err := uc.Ask(context.Background(), "우주법 질문")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answer.Sources) != 0 {
		t.Fatalf("expected no sources, got %d", len(answer.Sources))
	}
	if !strings.Contains(generator.lastPrompt, "## 참고 법령 조문:\n\n") {
		t.Fatalf("expected empty context section in prompt")
	}
}

func TestBuildAnswerPromptLayout(t *testing.T) {
	bundle := domain.ContextBundle{Entries: []domain.ContextEntry{
		{Text: "[산업안전보건법] 제29조\n본문 하나"},
		{Text: "[산업안전보건법 시행규칙] [별표 21] 제목\n본문 둘"},
	}}
	prompt := BuildAnswerPrompt("측정 대상은?", bundle)

	if !strings.Contains(prompt, "본문 하나"+contextSeparator+"[산업안전보건법 시행규칙]") {
		t.Fatalf("entries not joined with separator:\n%s", prompt)
	}
	if !strings.Contains(prompt, "## 질문:\n측정 대상은?") {
		t.Fatalf("question missing from prompt")
	}
	if !strings.Contains(prompt, "※ 본 답변은 참고용이며") {
		t.Fatalf("disclaimer instruction missing from prompt")
	}
	if !strings.Contains(prompt, "해당 내용은 제공된 조문에서 찾지 못했습니다") {
		t.Fatalf("out-of-context instruction missing from prompt")
	}
}
