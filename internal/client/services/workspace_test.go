package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
	"github.com/taskmaster-app/taskmaster-cli/internal/common"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func newWorkspace(fc *fakeClient) WorkspaceService {
	if fc.ListTasksRet == nil {
		fc.ListTasksRet = &models.TaskPage{}
	}
	return NewWorkspaceService(fc, testLogger())
}

func TestRefresh_PopulatesCollections(t *testing.T) {
	fc := &fakeClient{
		ListTasksRet: &models.TaskPage{
			Count:   25,
			Results: []models.Task{{ID: 1, Title: "buy milk"}},
		},
		ListCategoriesRet: []models.Category{{ID: 2, Name: "home", Color: "#6366f1"}},
	}
	ws := newWorkspace(fc)

	require.NoError(t, ws.Refresh(context.Background()))
	require.Len(t, ws.Tasks(), 1)
	require.Len(t, ws.Categories(), 1)
	require.Equal(t, 3, ws.TotalPages())
	require.Equal(t, 1, fc.ListTasksCalls)
	require.Equal(t, 1, fc.LastTaskQuery.Page)
}

func TestDisplayPage_NeverBelowOne(t *testing.T) {
	ws := newWorkspace(&fakeClient{ListTasksRet: &models.TaskPage{Count: 0}})
	require.NoError(t, ws.Refresh(context.Background()))

	require.Equal(t, 0, ws.TotalPages())
	current, total := ws.DisplayPage()
	require.Equal(t, 1, current)
	require.Equal(t, 1, total)
}

func TestPageNavigation_Bounds(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{Count: 25}}
	ws := newWorkspace(fc)
	ctx := context.Background()
	require.NoError(t, ws.Refresh(ctx))

	// Backward from the first page is a no-op without a request.
	calls := fc.ListTasksCalls
	require.NoError(t, ws.PrevPage(ctx))
	require.Equal(t, 1, ws.Page())
	require.Equal(t, calls, fc.ListTasksCalls)

	require.NoError(t, ws.NextPage(ctx))
	require.Equal(t, 2, ws.Page())
	require.NoError(t, ws.NextPage(ctx))
	require.Equal(t, 3, ws.Page())

	// Forward past the last page is a no-op too.
	calls = fc.ListTasksCalls
	require.NoError(t, ws.NextPage(ctx))
	require.Equal(t, 3, ws.Page())
	require.Equal(t, calls, fc.ListTasksCalls)
}

func TestSetPage_Validates(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{Count: 25}}
	ws := newWorkspace(fc)
	ctx := context.Background()
	require.NoError(t, ws.Refresh(ctx))

	require.ErrorIs(t, ws.SetPage(ctx, 0), common.ErrValidation)
	require.ErrorIs(t, ws.SetPage(ctx, 4), common.ErrValidation)
	require.NoError(t, ws.SetPage(ctx, 2))
	require.Equal(t, 2, fc.LastTaskQuery.Page)
}

func TestSetSearch_ResetsPage(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{Count: 25}}
	ws := newWorkspace(fc)
	ctx := context.Background()
	require.NoError(t, ws.Refresh(ctx))
	require.NoError(t, ws.NextPage(ctx))
	require.Equal(t, 2, ws.Page())

	require.NoError(t, ws.SetSearch(ctx, "milk"))
	require.Equal(t, 1, ws.Page())
	require.Equal(t, "milk", fc.LastTaskQuery.Search)
}

func TestSetCompletedFilter_Validates(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)
	ctx := context.Background()

	require.ErrorIs(t, ws.SetCompletedFilter(ctx, "yes"), common.ErrValidation)
	require.NoError(t, ws.SetCompletedFilter(ctx, "true"))
	require.Equal(t, "true", fc.LastTaskQuery.Completed)
	require.NoError(t, ws.SetCompletedFilter(ctx, ""))
	require.Empty(t, fc.LastTaskQuery.Completed)
}

func TestSetCategoryFilter_SendsID(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)

	require.NoError(t, ws.SetCategoryFilter(context.Background(), intPtr(7)))
	require.Equal(t, "7", fc.LastTaskQuery.Category)
}

func TestCreateTask_RequiresTitle(t *testing.T) {
	fc := &fakeClient{}
	ws := newWorkspace(fc)

	err := ws.CreateTask(context.Background(), "   ", nil)
	require.ErrorIs(t, err, common.ErrValidation)
	require.Nil(t, fc.LastCreateFields)
}

func TestCreateTask_SendsFieldsAndRefetches(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)

	require.NoError(t, ws.CreateTask(context.Background(), "buy milk", intPtr(3)))
	require.Equal(t, map[string]any{"title": "buy milk", "category": 3}, fc.LastCreateFields)
	require.Equal(t, 1, fc.ListTasksCalls)
}

func TestUpdateTask_OmitsEmptyDueDate(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)

	changes := TaskChanges{
		Title:   strPtr("new title"),
		DueDate: strPtr(""),
	}
	require.NoError(t, ws.UpdateTask(context.Background(), 4, changes))
	require.Equal(t, 4, fc.LastUpdateID)
	require.Equal(t, map[string]any{"title": "new title"}, fc.LastUpdateFields)
	require.NotContains(t, fc.LastUpdateFields, "due_date")
}

func TestUpdateTask_DueDateSentWhenPresent(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)

	changes := TaskChanges{DueDate: strPtr("2026-09-01T12:00:00Z")}
	require.NoError(t, ws.UpdateTask(context.Background(), 4, changes))
	require.Equal(t, map[string]any{"due_date": "2026-09-01T12:00:00Z"}, fc.LastUpdateFields)
}

func TestUpdateTask_ClearCategorySendsNull(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)

	require.NoError(t, ws.UpdateTask(context.Background(), 4, TaskChanges{ClearCategory: true}))
	require.Contains(t, fc.LastUpdateFields, "category")
	require.Nil(t, fc.LastUpdateFields["category"])
}

func TestUpdateTask_NoChangesIsLocalNoop(t *testing.T) {
	fc := &fakeClient{}
	ws := newWorkspace(fc)

	require.NoError(t, ws.UpdateTask(context.Background(), 4, TaskChanges{}))
	require.Zero(t, fc.UpdateTaskCalls)
}

func TestToggleCompletion_FlipsFlag(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)

	task := &models.Task{ID: 9, Completed: false}
	require.NoError(t, ws.ToggleCompletion(context.Background(), task))
	require.Equal(t, map[string]any{"completed": true}, fc.LastUpdateFields)

	task.Completed = true
	require.NoError(t, ws.ToggleCompletion(context.Background(), task))
	require.Equal(t, map[string]any{"completed": false}, fc.LastUpdateFields)
}

func TestDeleteTask_Refetches(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)

	require.NoError(t, ws.DeleteTask(context.Background(), 9))
	require.Equal(t, 9, fc.LastDeleteID)
	require.Equal(t, 1, fc.ListTasksCalls)
}

func TestDeleteTask_ErrorSurfacesWithoutRefetch(t *testing.T) {
	fc := &fakeClient{DeleteTaskErr: common.ErrServer}
	ws := newWorkspace(fc)

	require.ErrorIs(t, ws.DeleteTask(context.Background(), 9), common.ErrServer)
	require.Zero(t, fc.ListTasksCalls)
}

func TestShareTask_SendsUnion(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)

	task := &models.Task{ID: 4, SharedWithDetails: []models.User{{ID: 3, Username: "carol"}}}
	require.NoError(t, ws.ShareTask(context.Background(), task, 8))
	require.Equal(t, map[string]any{"shared_with": []int{3, 8}}, fc.LastUpdateFields)
	require.Equal(t, 1, fc.ListTasksCalls)
}

func TestShareTask_DuplicateIsLocalNoop(t *testing.T) {
	fc := &fakeClient{}
	ws := newWorkspace(fc)

	task := &models.Task{ID: 4, SharedWithDetails: []models.User{{ID: 8, Username: "dave"}}}
	err := ws.ShareTask(context.Background(), task, 8)
	require.ErrorIs(t, err, common.ErrAlreadyShared)
	require.Zero(t, fc.UpdateTaskCalls)
	require.Zero(t, fc.ListTasksCalls)
}

func TestCreateCategory_DefaultsColor(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)

	require.NoError(t, ws.CreateCategory(context.Background(), "home", ""))
	require.Equal(t, "home", fc.LastCategoryName)
	require.Equal(t, DefaultCategoryColor, fc.LastCategoryColor)
}

func TestCreateCategory_RejectsBadColor(t *testing.T) {
	fc := &fakeClient{}
	ws := newWorkspace(fc)

	err := ws.CreateCategory(context.Background(), "home", "blue")
	require.ErrorIs(t, err, common.ErrValidation)
	require.Empty(t, fc.LastCategoryName)
}

func TestDeleteCategory_ClearsMatchingFilter(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)
	ctx := context.Background()

	require.NoError(t, ws.SetCategoryFilter(ctx, intPtr(7)))
	require.NotNil(t, ws.CategoryFilter())

	require.NoError(t, ws.DeleteCategory(ctx, 7))
	require.Nil(t, ws.CategoryFilter())
	require.Equal(t, 7, fc.LastDeleteCatID)
	// The refetch after the delete must not filter on the dead category.
	require.Empty(t, fc.LastTaskQuery.Category)
}

func TestDeleteCategory_KeepsUnrelatedFilter(t *testing.T) {
	fc := &fakeClient{ListTasksRet: &models.TaskPage{}}
	ws := newWorkspace(fc)
	ctx := context.Background()

	require.NoError(t, ws.SetCategoryFilter(ctx, intPtr(2)))
	require.NoError(t, ws.DeleteCategory(ctx, 7))
	require.NotNil(t, ws.CategoryFilter())
	require.Equal(t, 2, *ws.CategoryFilter())
}

func TestWriteFailureLeavesStateUntouched(t *testing.T) {
	fc := &fakeClient{
		ListTasksRet: &models.TaskPage{Count: 1, Results: []models.Task{{ID: 1, Title: "keep me"}}},
	}
	ws := newWorkspace(fc)
	ctx := context.Background()
	require.NoError(t, ws.Refresh(ctx))

	fc.CreateTaskErr = common.ErrServer
	require.ErrorIs(t, ws.CreateTask(ctx, "new", nil), common.ErrServer)
	require.Len(t, ws.Tasks(), 1)
	require.Equal(t, "keep me", ws.Tasks()[0].Title)
}

func TestLookupHelpers(t *testing.T) {
	fc := &fakeClient{
		ListTasksRet:      &models.TaskPage{Count: 1, Results: []models.Task{{ID: 5, Title: "t"}}},
		ListCategoriesRet: []models.Category{{ID: 3, Name: "work"}},
	}
	ws := newWorkspace(fc)
	require.NoError(t, ws.Refresh(context.Background()))

	task, ok := ws.TaskByID(5)
	require.True(t, ok)
	require.Equal(t, "t", task.Title)
	_, ok = ws.TaskByID(99)
	require.False(t, ok)

	cat, ok := ws.CategoryByID(3)
	require.True(t, ok)
	require.Equal(t, "work", cat.Name)
	_, ok = ws.CategoryByID(99)
	require.False(t, ok)
}
