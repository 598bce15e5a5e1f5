package bedrock

import (
	"context"
	"sync"

	"github.com/aws/smithy-go"
)

type invocation struct {
	ModelID string
	Body    []byte
}

// fakeInvoker returns responses in order, then keeps repeating the last
// one. A nil entry in responses means "return the paired error".
type fakeInvoker struct {
	mu        sync.Mutex
	responses [][]byte
	errs      []error
	calls     []invocation
}

func (f *fakeInvoker) InvokeModel(_ context.Context, modelID string, body []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, invocation{ModelID: modelID, Body: body})

	idx := len(f.calls) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	if idx < 0 {
		return nil, nil
	}
	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	return f.responses[idx], err
}

func (f *fakeInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeInvoker) models() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.ModelID
	}
	return out
}

func throttlingErr() error {
	return &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}
}

func validationErr() error {
	return &smithy.GenericAPIError{Code: "ValidationException", Message: "bad input"}
}
