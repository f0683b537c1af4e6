package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Summary(t *testing.T) {
	svc := NewStatsService(&fakeOrderStore{orders: sampleOrders()}, &fakeQuoteStore{quotes: sampleQuotes()})

	summary, err := svc.Summary(context.Background(), adminUser)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalOrders)
	assert.Equal(t, 4, summary.TotalQuotes)
	assert.Equal(t, 2, summary.UnquotedOrders)
	assert.Equal(t, 1, summary.SelectedQuotes)
	require.Len(t, summary.Agents, 2)
	assert.Equal(t, "Initech", summary.Agents[0].Agent)

	_, err = svc.Summary(context.Background(), agentUser)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
