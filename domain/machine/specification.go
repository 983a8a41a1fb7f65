package machine

import "context"

// ByOrganizationSpecification 按组织筛选
type ByOrganizationSpecification struct {
	OrganizationID string
}

func (spec ByOrganizationSpecification) IsSatisfiedBy(_ context.Context, m *Machine) bool {
	return m.OrganizationID() == spec.OrganizationID
}

// ByStatusSpecification 按状态筛选
type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, m *Machine) bool {
	return m.Status() == spec.Status
}

// BySerialNumberSpecification 按序列号精确匹配（已规范化）
type BySerialNumberSpecification struct {
	SerialNumber string
}

func (spec BySerialNumberSpecification) IsSatisfiedBy(_ context.Context, m *Machine) bool {
	return m.SerialNumber() == NormalizeSerialNumber(spec.SerialNumber)
}
