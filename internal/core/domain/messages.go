package domain

// Fixed user-facing messages. The deployment serves Korean-language
// documents, so every canned response is Korean.
const (
	// MsgEmptyMessage is returned for blank input, before any retrieval
	// or model call.
	MsgEmptyMessage = "메시지가 비어 있습니다. 질문을 입력해 주세요."

	// MsgProcessingFailure is the apology used when message handling fails
	// unexpectedly.
	MsgProcessingFailure = "죄송합니다. 요청을 처리하는 중에 문제가 발생했습니다."

	// MsgServiceUnavailable is returned by the degraded service variant
	// when the answer pipeline could not be constructed.
	MsgServiceUnavailable = "죄송합니다. 현재 서비스에 일시적인 문제가 발생했습니다. 잠시 후 다시 시도해 주세요."

	// MsgGenerationExhausted is returned by the LLM adapter after all
	// retries and fallbacks are spent.
	MsgGenerationExhausted = "죄송합니다. 현재 응답을 생성할 수 없습니다. 질문을 다시 작성해 주시거나 나중에 다시 시도해 주세요."

	// MsgEmptyCompletion stands in for a model response with no content.
	MsgEmptyCompletion = "응답을 생성할 수 없습니다."

	// MsgNotInDocuments is the sentence the model is instructed to use when
	// the retrieved context does not cover the question.
	MsgNotInDocuments = "이 정보는 제공된 문서에 포함되어 있지 않습니다."

	// MsgConversationReset confirms a history reset.
	MsgConversationReset = "대화 기록이 초기화되었습니다."
)
