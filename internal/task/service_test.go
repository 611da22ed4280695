package task_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/auth"
	"github.com/mfadhilr/office-management/internal/core/events"
	"github.com/mfadhilr/office-management/internal/task"
)

func TestTaskService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Task Service Suite")
}

type mockTaskRepo struct {
	tasks   map[int64]*task.Task
	history map[int64][]task.HistoryEntry
	nextID  int64
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{
		tasks:   make(map[int64]*task.Task),
		history: make(map[int64][]task.HistoryEntry),
		nextID:  1,
	}
}

func (m *mockTaskRepo) Create(t *task.Task) error {
	t.ID = m.nextID
	m.nextID++
	m.tasks[t.ID] = t
	m.history[t.ID] = append(m.history[t.ID], t.History...)
	return nil
}

func (m *mockTaskRepo) GetByID(id int64) (*task.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *t
	copied.History = append([]task.HistoryEntry(nil), m.history[id]...)
	return &copied, nil
}

func (m *mockTaskRepo) List(filter task.ListFilter) ([]*task.Task, error) {
	var result []*task.Task
	for _, t := range m.tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.AssignedTo != 0 && t.AssignedTo != filter.AssignedTo {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *mockTaskRepo) Transition(t *task.Task, entry task.HistoryEntry) error {
	m.tasks[t.ID] = t
	m.history[t.ID] = append(m.history[t.ID], entry)
	return nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("Task Service", func() {
	var (
		repo    *mockTaskRepo
		bus     *mockPublisher
		service *task.Service
		ctx     context.Context

		creator    *auth.User
		assignee   *auth.User
		bystander  *auth.User
		manager    *auth.User
		superadmin *auth.User
	)

	BeforeEach(func() {
		repo = newMockTaskRepo()
		bus = &mockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = task.NewService(repo, bus, logger)
		ctx = context.Background()

		creator = &auth.User{ID: 1, Role: auth.RoleHOD}
		assignee = &auth.User{ID: 2, Role: auth.RoleEmployee}
		bystander = &auth.User{ID: 3, Role: auth.RoleEmployee}
		manager = &auth.User{ID: 5, Role: auth.RoleHOD}
		superadmin = &auth.User{ID: 4, Role: auth.RoleSuperAdmin}
	})

	create := func() *task.Task {
		t, err := service.Create(ctx, creator.ID, task.CreateTaskDTO{
			Title:      "Replace UPS batteries",
			AssignedTo: assignee.ID,
			Priority:   task.PriorityHigh,
			Category:   "Maintenance",
		})
		Expect(err).NotTo(HaveOccurred())
		return t
	}

	Describe("Create", func() {
		It("should start Assigned with a creation history entry", func() {
			t := create()
			Expect(t.Status).To(Equal(task.StatusAssigned))
			Expect(t.History).To(HaveLen(1))
			Expect(t.History[0].Action).To(Equal(task.ActionCreated))
			Expect(t.History[0].ActorID).To(Equal(creator.ID))
		})

		It("should reject a missing title or assignee", func() {
			_, err := service.Create(ctx, creator.ID, task.CreateTaskDTO{AssignedTo: 2})
			Expect(err).To(HaveOccurred())
			_, err = service.Create(ctx, creator.ID, task.CreateTaskDTO{Title: "x"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("assignee guard", func() {
		It("should let only the assignee accept", func() {
			t := create()

			_, err := service.Accept(ctx, t.ID, bystander)
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeNotAssignee))

			accepted, err := service.Accept(ctx, t.ID, assignee)
			Expect(err).NotTo(HaveOccurred())
			Expect(accepted.Status).To(Equal(task.StatusInProgress))
		})

		It("should let only the assignee complete, with remarks", func() {
			t := create()
			_, err := service.Accept(ctx, t.ID, assignee)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Complete(ctx, t.ID, assignee, task.RemarksDTO{})
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeRemarksRequired))

			_, err = service.Complete(ctx, t.ID, bystander, task.RemarksDTO{Remarks: "done"})
			Expect(err).To(HaveOccurred())

			completed, err := service.Complete(ctx, t.ID, assignee, task.RemarksDTO{Remarks: "replaced both units"})
			Expect(err).NotTo(HaveOccurred())
			Expect(completed.Status).To(Equal(task.StatusPendingReview))
		})
	})

	Describe("review guard", func() {
		var taskID int64

		BeforeEach(func() {
			t := create()
			taskID = t.ID
			_, err := service.Accept(ctx, taskID, assignee)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Complete(ctx, taskID, assignee, task.RemarksDTO{Remarks: "done"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should refuse review from the assignee or a bystander", func() {
			_, err := service.ApproveReview(ctx, taskID, assignee)
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeNotReviewer))

			_, err = service.ApproveReview(ctx, taskID, bystander)
			Expect(err).To(HaveOccurred())
		})

		It("should close when the creator approves", func() {
			t, err := service.ApproveReview(ctx, taskID, creator)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(task.StatusClosed))
		})

		It("should allow a department head who did not create the task to review", func() {
			t, err := service.ApproveReview(ctx, taskID, manager)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(task.StatusClosed))
		})

		It("should allow a superadmin to review", func() {
			t, err := service.ApproveReview(ctx, taskID, superadmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(task.StatusClosed))
		})

		It("should reopen on rejection with remarks, and allow re-accepting", func() {
			_, err := service.RejectReview(ctx, taskID, creator, task.RemarksDTO{})
			Expect(err).To(HaveOccurred())

			t, err := service.RejectReview(ctx, taskID, creator, task.RemarksDTO{Remarks: "one unit still beeping"})
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(task.StatusReopened))

			t, err = service.Accept(ctx, taskID, assignee)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(task.StatusInProgress))
		})
	})

	Describe("history", func() {
		It("should append exactly one entry per transition and never rewrite", func() {
			t := create()
			_, err := service.Accept(ctx, t.ID, assignee)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Complete(ctx, t.ID, assignee, task.RemarksDTO{Remarks: "done"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.RejectReview(ctx, t.ID, creator, task.RemarksDTO{Remarks: "redo"})
			Expect(err).NotTo(HaveOccurred())

			loaded, err := service.Get(t.ID)
			Expect(err).NotTo(HaveOccurred())
			actions := make([]string, len(loaded.History))
			for i, h := range loaded.History {
				actions[i] = h.Action
			}
			Expect(actions).To(Equal([]string{
				task.ActionCreated,
				task.ActionAccepted,
				task.ActionCompleted,
				task.ActionReopened,
			}))
			Expect(loaded.History[3].Details).To(Equal("redo"))
		})

		It("should publish an event per transition", func() {
			t := create()
			_, err := service.Accept(ctx, t.ID, assignee)
			Expect(err).NotTo(HaveOccurred())
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventTaskTransitioned))
		})
	})

	Describe("terminal state", func() {
		It("should refuse any action on a closed task", func() {
			t := create()
			_, err := service.Accept(ctx, t.ID, assignee)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Complete(ctx, t.ID, assignee, task.RemarksDTO{Remarks: "done"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ApproveReview(ctx, t.ID, creator)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Accept(ctx, t.ID, assignee)
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})
	})
})
