package portfolio

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lending-analytics/internal/event"
	"lending-analytics/internal/pkg/table"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) FetchLoanTable(ctx context.Context) (*table.Table, error) {
	ret := _m.Called(ctx)

	var r0 *table.Table
	if rf, ok := ret.Get(0).(func(context.Context) *table.Table); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*table.Table)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) FetchCustomerActivityTable(ctx context.Context) (*table.Table, error) {
	ret := _m.Called(ctx)

	var r0 *table.Table
	if rf, ok := ret.Get(0).(func(context.Context) *table.Table); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*table.Table)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	ret := _m.Called(ctx, snapshot)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Snapshot) error); ok {
		r0 = rf(ctx, snapshot)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockRepository) FindSnapshotByID(ctx context.Context, snapshotID string) (*Snapshot, error) {
	ret := _m.Called(ctx, snapshotID)

	var r0 *Snapshot
	if rf, ok := ret.Get(0).(func(context.Context, string) *Snapshot); ok {
		r0 = rf(ctx, snapshotID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Snapshot)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, snapshotID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

type MockPublisher struct {
	mock.Mock
}

func (_m *MockPublisher) PublishSnapshotCompleted(ctx context.Context, evt event.SnapshotCompletedEvent) error {
	ret := _m.Called(ctx, evt)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, event.SnapshotCompletedEvent) error); ok {
		r0 = rf(ctx, evt)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
