package repository

import (
	"context"

	"starmobiles/internal/domain/repository"
)

// FakeTransactionManager runs fn immediately against Factory. It never
// rolls anything back; the returned error is fn's.
type FakeTransactionManager struct {
	Factory repository.RepositoryFactory
	Calls   int
}

// NewFakeTransactionManager returns a manager that hands out factory.
func NewFakeTransactionManager(factory repository.RepositoryFactory) *FakeTransactionManager {
	return &FakeTransactionManager{Factory: factory}
}

func (m *FakeTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	m.Calls++

	return fn(m.Factory)
}

// RepositoryFactory hands out the mocks it was built with.
type RepositoryFactory struct {
	User         *MockUserRepository
	Auth         *MockAuthRepository
	RefreshToken *MockRefreshTokenRepository
	Cart         *MockCartRepository
	Order        *MockOrderRepository
}

func (f *RepositoryFactory) UserRepo() repository.UserRepository { return f.User }

func (f *RepositoryFactory) AuthRepo() repository.AuthRepository { return f.Auth }

func (f *RepositoryFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return f.RefreshToken
}

func (f *RepositoryFactory) CartRepo() repository.CartRepository { return f.Cart }

func (f *RepositoryFactory) OrderRepo() repository.OrderRepository { return f.Order }
