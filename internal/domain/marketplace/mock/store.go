package mock

import (
	context "context"
	reflect "reflect"

	marketplace "github.com/storydeck/marketplace/internal/domain/marketplace"
	gomock "go.uber.org/mock/gomock"
)

// MockStore is a mock of Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
	isgomock struct{}
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	mock := &MockStore{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

// InsertListing mocks base method.
func (m *MockStore) InsertListing(ctx context.Context, listing *marketplace.Listing) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertListing", ctx, listing)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// InsertListing indicates an expected call of InsertListing.
func (mr *MockStoreMockRecorder) InsertListing(ctx, listing any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertListing", reflect.TypeOf((*MockStore)(nil).InsertListing), ctx, listing)
}

// RunInTransaction mocks base method.
func (m *MockStore) RunInTransaction(ctx context.Context, fn func(context.Context, marketplace.Tx) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RunInTransaction", ctx, fn)
	ret0, _ := ret[0].(error)
	return ret0
}

// RunInTransaction indicates an expected call of RunInTransaction.
func (mr *MockStoreMockRecorder) RunInTransaction(ctx, fn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RunInTransaction", reflect.TypeOf((*MockStore)(nil).RunInTransaction), ctx, fn)
}

// GetListing mocks base method.
func (m *MockStore) GetListing(ctx context.Context, id string) (*marketplace.Listing, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetListing", ctx, id)
	ret0, _ := ret[0].(*marketplace.Listing)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetListing indicates an expected call of GetListing.
func (mr *MockStoreMockRecorder) GetListing(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetListing", reflect.TypeOf((*MockStore)(nil).GetListing), ctx, id)
}

// GetTrade mocks base method.
func (m *MockStore) GetTrade(ctx context.Context, id string) (*marketplace.Trade, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTrade", ctx, id)
	ret0, _ := ret[0].(*marketplace.Trade)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetTrade indicates an expected call of GetTrade.
func (mr *MockStoreMockRecorder) GetTrade(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTrade", reflect.TypeOf((*MockStore)(nil).GetTrade), ctx, id)
}

// ListingsByCreator mocks base method.
func (m *MockStore) ListingsByCreator(ctx context.Context, uid string) ([]marketplace.Listing, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListingsByCreator", ctx, uid)
	ret0, _ := ret[0].([]marketplace.Listing)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListingsByCreator indicates an expected call of ListingsByCreator.
func (mr *MockStoreMockRecorder) ListingsByCreator(ctx, uid any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListingsByCreator", reflect.TypeOf((*MockStore)(nil).ListingsByCreator), ctx, uid)
}

// OpenListings mocks base method.
func (m *MockStore) OpenListings(ctx context.Context, cardID string) ([]marketplace.Listing, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenListings", ctx, cardID)
	ret0, _ := ret[0].([]marketplace.Listing)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenListings indicates an expected call of OpenListings.
func (mr *MockStoreMockRecorder) OpenListings(ctx, cardID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenListings", reflect.TypeOf((*MockStore)(nil).OpenListings), ctx, cardID)
}

// Ping mocks base method.
func (m *MockStore) Ping(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Ping", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

// Ping indicates an expected call of Ping.
func (mr *MockStoreMockRecorder) Ping(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Ping", reflect.TypeOf((*MockStore)(nil).Ping), ctx)
}

// TradesForParticipant mocks base method.
func (m *MockStore) TradesForParticipant(ctx context.Context, uid string) ([]marketplace.Trade, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TradesForParticipant", ctx, uid)
	ret0, _ := ret[0].([]marketplace.Trade)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TradesForParticipant indicates an expected call of TradesForParticipant.
func (mr *MockStoreMockRecorder) TradesForParticipant(ctx, uid any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TradesForParticipant", reflect.TypeOf((*MockStore)(nil).TradesForParticipant), ctx, uid)
}

// MockTx is a mock of Tx interface.
type MockTx struct {
	ctrl     *gomock.Controller
	recorder *MockTxMockRecorder
	isgomock struct{}
}

// MockTxMockRecorder is the mock recorder for MockTx.
type MockTxMockRecorder struct {
	mock *MockTx
}

// NewMockTx creates a new mock instance.
func NewMockTx(ctrl *gomock.Controller) *MockTx {
	mock := &MockTx{ctrl: ctrl}
	mock.recorder = &MockTxMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTx) EXPECT() *MockTxMockRecorder {
	return m.recorder
}

// GetListing mocks base method.
func (m *MockTx) GetListing(ctx context.Context, id string) (*marketplace.Listing, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetListing", ctx, id)
	ret0, _ := ret[0].(*marketplace.Listing)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetListing indicates an expected call of GetListing.
func (mr *MockTxMockRecorder) GetListing(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetListing", reflect.TypeOf((*MockTx)(nil).GetListing), ctx, id)
}

// GetTrade mocks base method.
func (m *MockTx) GetTrade(ctx context.Context, id string) (*marketplace.Trade, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTrade", ctx, id)
	ret0, _ := ret[0].(*marketplace.Trade)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetTrade indicates an expected call of GetTrade.
func (mr *MockTxMockRecorder) GetTrade(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTrade", reflect.TypeOf((*MockTx)(nil).GetTrade), ctx, id)
}

// InsertTrade mocks base method.
func (m *MockTx) InsertTrade(ctx context.Context, trade *marketplace.Trade) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertTrade", ctx, trade)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// InsertTrade indicates an expected call of InsertTrade.
func (mr *MockTxMockRecorder) InsertTrade(ctx, trade any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertTrade", reflect.TypeOf((*MockTx)(nil).InsertTrade), ctx, trade)
}

// UpdateListing mocks base method.
func (m *MockTx) UpdateListing(ctx context.Context, listing *marketplace.Listing, from marketplace.ListingStatus) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateListing", ctx, listing, from)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateListing indicates an expected call of UpdateListing.
func (mr *MockTxMockRecorder) UpdateListing(ctx, listing, from any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateListing", reflect.TypeOf((*MockTx)(nil).UpdateListing), ctx, listing, from)
}

// UpdateTrade mocks base method.
func (m *MockTx) UpdateTrade(ctx context.Context, trade *marketplace.Trade, from marketplace.TradeStatus) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateTrade", ctx, trade, from)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateTrade indicates an expected call of UpdateTrade.
func (mr *MockTxMockRecorder) UpdateTrade(ctx, trade, from any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateTrade", reflect.TypeOf((*MockTx)(nil).UpdateTrade), ctx, trade, from)
}

// MockChangeSource is a mock of ChangeSource interface.
type MockChangeSource struct {
	ctrl     *gomock.Controller
	recorder *MockChangeSourceMockRecorder
	isgomock struct{}
}

// MockChangeSourceMockRecorder is the mock recorder for MockChangeSource.
type MockChangeSourceMockRecorder struct {
	mock *MockChangeSource
}

// NewMockChangeSource creates a new mock instance.
func NewMockChangeSource(ctrl *gomock.Controller) *MockChangeSource {
	mock := &MockChangeSource{ctrl: ctrl}
	mock.recorder = &MockChangeSourceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockChangeSource) EXPECT() *MockChangeSourceMockRecorder {
	return m.recorder
}

// ListingChanges mocks base method.
func (m *MockChangeSource) ListingChanges(ctx context.Context) (<-chan string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListingChanges", ctx)
	ret0, _ := ret[0].(<-chan string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListingChanges indicates an expected call of ListingChanges.
func (mr *MockChangeSourceMockRecorder) ListingChanges(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListingChanges", reflect.TypeOf((*MockChangeSource)(nil).ListingChanges), ctx)
}

// MockCardNamer is a mock of CardNamer interface.
type MockCardNamer struct {
	ctrl     *gomock.Controller
	recorder *MockCardNamerMockRecorder
	isgomock struct{}
}

// MockCardNamerMockRecorder is the mock recorder for MockCardNamer.
type MockCardNamerMockRecorder struct {
	mock *MockCardNamer
}

// NewMockCardNamer creates a new mock instance.
func NewMockCardNamer(ctrl *gomock.Controller) *MockCardNamer {
	mock := &MockCardNamer{ctrl: ctrl}
	mock.recorder = &MockCardNamerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCardNamer) EXPECT() *MockCardNamerMockRecorder {
	return m.recorder
}

// DisplayName mocks base method.
func (m *MockCardNamer) DisplayName(cardID string) (string, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DisplayName", cardID)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// DisplayName indicates an expected call of DisplayName.
func (mr *MockCardNamerMockRecorder) DisplayName(cardID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DisplayName", reflect.TypeOf((*MockCardNamer)(nil).DisplayName), cardID)
}
