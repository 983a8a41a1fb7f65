package shared

import "context"

// UnitOfWork 管理单个逻辑请求的事务边界与聚合事件收集。
// 一个实例只服务一次请求：Begin 至多一次，SaveChanges 或 Rollback 之后不可再用。
type UnitOfWork interface {
	// Begin 开启事务，返回携带事务作用域的 context，仓储通过该 context 参与事务
	Begin(ctx context.Context) (context.Context, error)

	// Track 登记本次请求中新增或修改的聚合，用于提交后取出领域事件
	Track(aggregate AggregateRoot)

	// SaveChanges 原子地持久化所有变更并提交，返回受影响的记录数。
	// 成功后取出并清空已登记聚合的事件；失败时不产生任何部分效果
	SaveChanges(ctx context.Context) (int, error)

	// Rollback 丢弃所有变更与已登记聚合的事件，可重复调用
	Rollback(ctx context.Context) error
}

type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// UnitOfWorkFactoryFunc 允许普通函数作为工厂
type UnitOfWorkFactoryFunc func() UnitOfWork

func (f UnitOfWorkFactoryFunc) New() UnitOfWork { return f() }

type unitOfWorkKey struct{}

// ContextWithUnitOfWork 把当前请求的工作单元放入 context
func ContextWithUnitOfWork(ctx context.Context, uow UnitOfWork) context.Context {
	return context.WithValue(ctx, unitOfWorkKey{}, uow)
}

// UnitOfWorkFromContext 读取当前请求的工作单元；查询请求没有工作单元
func UnitOfWorkFromContext(ctx context.Context) (UnitOfWork, bool) {
	uow, ok := ctx.Value(unitOfWorkKey{}).(UnitOfWork)
	return uow, ok && uow != nil
}

// Track 把聚合登记到 context 中的工作单元，没有工作单元时忽略
func Track(ctx context.Context, aggregate AggregateRoot) {
	if uow, ok := UnitOfWorkFromContext(ctx); ok {
		uow.Track(aggregate)
	}
}
