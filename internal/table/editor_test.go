package table

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor_RequiresEditModeAndEditableColumn(t *testing.T) {
	var e Editor
	cell := Cell{RowID: "id-01", Column: "valor_total"}
	assert.ErrorIs(t, e.Start(aptSpec, cell, "1"), ErrEditModeOff)

	e.SetEditMode(true)
	assert.ErrorIs(t, e.Start(aptSpec, Cell{RowID: "id-01", Column: "vendido"}, "true"), ErrNotEditable)
	require.NoError(t, e.Start(aptSpec, cell, "1000"))
	assert.Equal(t, "1000", e.State().Value)

	e.SetEditMode(false)
	assert.Nil(t, e.State().Cell)
}

func TestEditor_SaveWritesSingleField(t *testing.T) {
	src := &memSource{apts: apartments(2)}
	var e Editor
	e.SetEditMode(true)
	require.NoError(t, e.Start(aptSpec, Cell{RowID: "id-02", Column: "valor_total"}, "2000"))
	require.NoError(t, e.SetValue("2500,5"))

	cell, err := e.Save(context.Background(), src, aptSpec)
	require.NoError(t, err)
	assert.Equal(t, "valor_total", cell.Column)
	assert.Nil(t, e.State().Cell)
	assert.Equal(t, 2500.5, *src.apts[1].ValorTotal)
}

func TestEditor_FailureKeepsState(t *testing.T) {
	src := &memSource{apts: apartments(1), update: func(context.Context, string, string, any) error {
		return errors.New("backend down")
	}}
	var e Editor
	e.SetEditMode(true)
	require.NoError(t, e.Start(aptSpec, Cell{RowID: "id-01", Column: "valor_total"}, "1000"))
	require.NoError(t, e.SetValue("1200"))

	_, err := e.Save(context.Background(), src, aptSpec)
	require.Error(t, err)
	st := e.State()
	require.NotNil(t, st.Cell)
	assert.Equal(t, "1200", st.Value)

	require.NoError(t, e.SetValue("abc"))
	_, err = e.Save(context.Background(), src, aptSpec)
	assert.ErrorContains(t, err, "not a number")

	e.Cancel()
	assert.Nil(t, e.State().Cell)
	_, err = e.Save(context.Background(), src, aptSpec)
	assert.ErrorIs(t, err, ErrNoActiveEdit)
}

func TestEditor_NewStartSupersedesPendingSave(t *testing.T) {
	started := make(chan struct{})
	src := &memSource{apts: apartments(2), update: func(ctx context.Context, id, _ string, _ any) error {
		if id != "id-01" {
			return nil
		}
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}}
	var e Editor
	e.SetEditMode(true)
	require.NoError(t, e.Start(aptSpec, Cell{RowID: "id-01", Column: "valor_total"}, "1"))

	done := make(chan error, 1)
	go func() {
		_, err := e.Save(context.Background(), src, aptSpec)
		done <- err
	}()
	<-started
	require.NoError(t, e.Start(aptSpec, Cell{RowID: "id-02", Column: "valor_mt2"}, "5"))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrEditSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("pending save was not cancelled")
	}
	st := e.State()
	require.NotNil(t, st.Cell)
	assert.Equal(t, "id-02", st.Cell.RowID)
	assert.Equal(t, "5", st.Value)
}
