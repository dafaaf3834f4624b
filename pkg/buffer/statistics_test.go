package buffer

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsCounters(t *testing.T) {
	buf := newIntBuffer(t, 4)

	for i := 0; i < 5; i++ {
		require.NoError(t, buf.PushBack(i))
	}
	buf.PopFront()
	buf.PopBack()
	_, err := buf.Insert(buf.Begin().Add(1), 9)
	require.NoError(t, err)
	buf.Erase(buf.Begin())

	stats := buf.Stats()
	assert.Equal(t, int64(5), stats.Pushes())
	assert.Equal(t, int64(2), stats.Pops())
	assert.Equal(t, int64(1), stats.Inserts())
	assert.Equal(t, int64(1), stats.Erases())
	assert.Equal(t, int64(1), stats.Growths())
	assert.Equal(t, int64(3), stats.CurrentSize())
	assert.Equal(t, int64(5), stats.MaxSize())
	assert.Equal(t, int64(8), stats.Capacity())
	assert.InDelta(t, 3.0/8.0, stats.Utilization(), 0.0001)

	// 6 element copies plus 3 moved during growth
	assert.Equal(t, int64(9), stats.Copies())
	assert.Equal(t, int64(3+2+1), stats.Releases())
}

func TestStatisticsReset(t *testing.T) {
	buf := newIntBuffer(t, 8, 1, 2, 3)
	buf.PopBack()

	stats := buf.Stats()
	stats.Reset()

	summary := stats.Summary()
	assert.Zero(t, summary.Pushes)
	assert.Zero(t, summary.Pops)
	assert.Zero(t, summary.Copies)
	assert.Equal(t, int64(2), summary.CurrentSize)
	assert.Equal(t, int64(2), summary.MaxSize)
	assert.Equal(t, int64(8), summary.Capacity)
}

func TestStatisticsSummaryJSON(t *testing.T) {
	buf := newIntBuffer(t, 4, 1, 2)

	data, err := json.Marshal(buf.Stats().Summary())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(2), decoded["pushes"])
	assert.Equal(t, float64(4), decoded["capacity"])
	assert.Equal(t, 0.5, decoded["utilization"])
	assert.Contains(t, decoded, "rollbacks")
}

func TestStatisticsUtilizationEmpty(t *testing.T) {
	assert.Equal(t, 0.0, NewStatistics().Utilization())
}

func TestStatisticsConcurrentReads(t *testing.T) {
	stats := NewStatistics()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= 1000; i++ {
			stats.recordPush()
			stats.updateSize(i, 2048)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = stats.Summary()
		}
	}()
	wg.Wait()

	assert.Equal(t, int64(1000), stats.Pushes())
	assert.Equal(t, int64(1000), stats.MaxSize())
}
