/*
Package memory 进程内存储

数据以重建 DTO 的快照形式保存，读取时重建新的聚合实例，
因此处理器对聚合的修改在工作单元提交前不会影响存储。
提交时在快照副本上依次应用暂存的写操作，全部成功才替换当前数据，
任何一步失败都不留下部分效果。
*/
package memory

import (
	"context"
	"maps"
	"sync"

	"servicedesk/domain/machine"
	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
	"servicedesk/domain/ticket"
	"servicedesk/domain/user"
)

type dataset struct {
	organizations map[string]organization.ReconstructionDTO
	machines      map[string]machine.ReconstructionDTO
	tickets       map[string]ticket.ReconstructionDTO
	users         map[string]user.ReconstructionDTO
}

func newDataset() *dataset {
	return &dataset{
		organizations: make(map[string]organization.ReconstructionDTO),
		machines:      make(map[string]machine.ReconstructionDTO),
		tickets:       make(map[string]ticket.ReconstructionDTO),
		users:         make(map[string]user.ReconstructionDTO),
	}
}

func (d *dataset) clone() *dataset {
	return &dataset{
		organizations: maps.Clone(d.organizations),
		machines:      maps.Clone(d.machines),
		tickets:       maps.Clone(d.tickets),
		users:         maps.Clone(d.users),
	}
}

// op 一次暂存的写操作；返回的 afterCommit 在提交成功后执行
type op func(d *dataset) (afterCommit func(), err error)

// Store 内存数据库
type Store struct {
	mu   sync.RWMutex
	data *dataset

	seqMu     sync.Mutex
	sequences map[int]int
}

func NewStore() *Store {
	return &Store{
		data:      newDataset(),
		sequences: make(map[int]int),
	}
}

// read 在读锁下访问当前已提交的数据
func (s *Store) read(fn func(d *dataset)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// apply 原子地应用一组写操作
func (s *Store) apply(ops []op) (int, error) {
	s.mu.Lock()
	snapshot := s.data.clone()
	hooks := make([]func(), 0, len(ops))
	for _, o := range ops {
		hook, err := o(snapshot)
		if err != nil {
			s.mu.Unlock()
			return 0, err
		}
		if hook != nil {
			hooks = append(hooks, hook)
		}
	}
	s.data = snapshot
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	return len(ops), nil
}

// write 有活动的工作单元时暂存，否则立即提交
func (s *Store) write(ctx context.Context, o op) error {
	if uow, ok := shared.UnitOfWorkFromContext(ctx); ok {
		if mem, ok := uow.(*UnitOfWork); ok && mem.store == s {
			return mem.stage(o)
		}
	}
	_, err := s.apply([]op{o})
	return err
}

// nextSequence 预留年度序号；与数据库序列一样，回滚不归还已分配的序号
func (s *Store) nextSequence(year int) int {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	if s.sequences[year] == 0 {
		s.read(func(d *dataset) {
			for _, t := range d.tickets {
				if t.Number.Year() == year && t.Number.Sequence() > s.sequences[year] {
					s.sequences[year] = t.Number.Sequence()
				}
			}
		})
	}
	s.sequences[year]++
	return s.sequences[year]
}

// Counts 各表行数，供健康检查与测试使用
func (s *Store) Counts() map[string]int {
	counts := make(map[string]int, 4)
	s.read(func(d *dataset) {
		counts["organizations"] = len(d.organizations)
		counts["machines"] = len(d.machines)
		counts["tickets"] = len(d.tickets)
		counts["users"] = len(d.users)
	})
	return counts
}
