package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hillslab/lawcounsel/internal/core/domain"
	"github.com/hillslab/lawcounsel/internal/core/ports"
)

const contextSeparator = "\n\n---\n\n"

// AnswerUseCase composes the grounding prompt from the retrieved bundle
// and delegates to the external generation capability. It does not
// verify post hoc that the model stayed inside the context; the prompt
// instructions are the enforcement mechanism.
type AnswerUseCase struct {
	retriever *HybridRetriever
	generator ports.AnswerGenerator
	maxTokens int
}

func NewAnswerUseCase(retriever *HybridRetriever, generator ports.AnswerGenerator, maxTokens int) *AnswerUseCase {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnswerUseCase{
		retriever: retriever,
		generator: generator,
		maxTokens: maxTokens,
	}
}

func (uc *AnswerUseCase) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", errors.New("empty question"))
	}

	bundle := uc.retriever.Retrieve(ctx, question)
	prompt := BuildAnswerPrompt(question, bundle)

	text, err := uc.generator.Generate(ctx, prompt, uc.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:    text,
		Sources: bundle.Provenances(),
	}, nil
}

// BuildAnswerPrompt renders the grounded-counselor template. An empty
// bundle leaves the context section empty; instruction 3 then governs
// the user-visible outcome.
func BuildAnswerPrompt(question string, bundle domain.ContextBundle) string {
	texts := make([]string, 0, len(bundle.Entries))
	for i := range bundle.Entries {
		texts = append(texts, bundle.Entries[i].Text)
	}
	contextBlock := strings.Join(texts, contextSeparator)

	return fmt.Sprintf(`당신은 산업안전보건법 전문 상담사입니다.
아래 제공된 법령 조문을 참고하여 질문에 답변해주세요.

## 참고 법령 조문:
%s

## 질문:
%s

## 답변 지침:
1. 반드시 위 조문 내용을 근거로 답변하세요
2. 관련 조문 번호를 명시하세요 (예: 제29조에 따르면...)
3. 조문에 없는 내용은 "해당 내용은 제공된 조문에서 찾지 못했습니다"라고 답하세요
4. 쉽고 친절하게 설명하세요
5. 마지막에 면책조항을 추가하세요: "※ 본 답변은 참고용이며, 정확한 법률 해석은 전문가와 상담하시기 바랍니다."

## 답변:`, contextBlock, question)
}
