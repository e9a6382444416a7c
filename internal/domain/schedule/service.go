package schedule

import "context"

type ScheduleService interface {
	Create(ctx context.Context, req CreateAssignmentRequest) (AssignmentResponse, error)
	CreateBatch(ctx context.Context, req BatchRequest) (BatchResult, error)
	CreateFromTemplate(ctx context.Context, req TemplateRequest) (BatchResult, error)

	Confirm(ctx context.Context, id string) (AssignmentResponse, error)
	Reject(ctx context.Context, req RejectAssignmentRequest) (AssignmentResponse, error)
	Cancel(ctx context.Context, id string) (AssignmentResponse, error)

	ListMine(ctx context.Context, filter MyAssignmentFilter) (ListAssignmentResponse, error)
	List(ctx context.Context, filter AssignmentFilter) (ListAssignmentResponse, error)
}
