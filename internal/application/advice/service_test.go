package advice

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/internal/testutils"
	"github.com/nutriplan/client/pkg/errors"
)

func advices(n int) []outbound.Advice {
	out := make([]outbound.Advice, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, outbound.Advice{ID: int64(i)})
	}
	return out
}

func adviceIDs(in []outbound.Advice) []int64 {
	out := make([]int64, 0, len(in))
	for _, a := range in {
		out = append(out, a.ID)
	}
	return out
}

func TestLatest(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  []int64
	}{
		{"MoreThanLimit", 8, 0, []int64{8, 7, 6, 5, 4}},
		{"FewerThanLimit", 3, 5, []int64{3, 2, 1}},
		{"CustomLimit", 4, 2, []int64{4, 3}},
		{"Empty", 0, 5, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := new(testutils.MockAdviceGateway)
			gw.On("ListAdvice", mock.Anything).Return(advices(tt.total), nil).Once()

			got, err := NewService(gw, tt.limit, zap.NewNop()).Latest(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.want, adviceIDs(got))
			gw.AssertExpectations(t)
		})
	}
}

func TestLatest_GatewayError(t *testing.T) {
	gw := new(testutils.MockAdviceGateway)
	gw.On("ListAdvice", mock.Anything).Return(nil, stderrors.New("401")).Once()

	_, err := NewService(gw, 5, zap.NewNop()).Latest(context.Background())

	assert.True(t, errors.Is(err, errors.CodeExternalServiceError))
}
