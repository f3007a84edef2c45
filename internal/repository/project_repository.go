package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfoliostudio/internal/model"
)

// projectColumns are the mutable columns written by Update.
var projectColumns = []string{
	"title", "subtitle", "description", "category", "tags", "tech_stack",
	"thumbnail_url", "gallery", "github_url", "live_url", "download_url",
	"custom_links", "is_published", "sort_order", "updated_at",
}

// ProjectRepository defines project persistence for the global scope and for
// site scopes. Every tenant query carries the site id.
type ProjectRepository interface {
	List(ctx context.Context, scope Scope, publishedOnly bool) ([]model.Project, error)
	FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*model.Project, error)
	Create(ctx context.Context, scope Scope, project *model.Project) error
	CreateBatch(ctx context.Context, scope Scope, projects []model.Project) error
	Update(ctx context.Context, scope Scope, id uuid.UUID, project *model.Project) (*model.Project, error)
	Delete(ctx context.Context, scope Scope, id uuid.UUID) error
	Reorder(ctx context.Context, scope Scope, items []model.ReorderItem) error
	Count(ctx context.Context, scope Scope) (int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository builds a GORM-backed repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// scoped returns a query against the table of scope, filtered to its site.
func scoped(db *gorm.DB, scope Scope) *gorm.DB {
	if scope.IsGlobal() {
		return db.Model(&model.Project{})
	}
	return db.Model(&model.TenantProject{}).Where("site_id = ?", scope.SiteID())
}

func (r *projectRepository) List(ctx context.Context, scope Scope, publishedOnly bool) ([]model.Project, error) {
	q := scoped(r.db.WithContext(ctx), scope)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	q = q.Order("sort_order ASC").Order("created_at ASC")

	if scope.IsGlobal() {
		var projects []model.Project
		if err := q.Find(&projects).Error; err != nil {
			return nil, translate(err, "list projects")
		}
		return projects, nil
	}

	var rows []model.TenantProject
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err, "list site projects")
	}
	projects := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.Project)
	}
	return projects, nil
}

func (r *projectRepository) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*model.Project, error) {
	q := scoped(r.db.WithContext(ctx), scope).Where("id = ?", id)
	if scope.IsGlobal() {
		var project model.Project
		if err := q.First(&project).Error; err != nil {
			return nil, translate(err, "find project")
		}
		return &project, nil
	}
	var row model.TenantProject
	if err := q.First(&row).Error; err != nil {
		return nil, translate(err, "find site project")
	}
	return &row.Project, nil
}

func (r *projectRepository) Create(ctx context.Context, scope Scope, project *model.Project) error {
	project.FillEmptyLists()
	if scope.IsGlobal() {
		return translate(r.db.WithContext(ctx).Create(project).Error, "create project")
	}
	row := model.TenantProject{Project: *project, SiteID: scope.SiteID()}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err, "create site project")
	}
	*project = row.Project
	return nil
}

// CreateBatch inserts several projects in one statement.
func (r *projectRepository) CreateBatch(ctx context.Context, scope Scope, projects []model.Project) error {
	if len(projects) == 0 {
		return nil
	}
	for i := range projects {
		projects[i].FillEmptyLists()
	}
	if scope.IsGlobal() {
		return translate(r.db.WithContext(ctx).CreateInBatches(projects, 100).Error, "create projects")
	}
	rows := make([]model.TenantProject, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, model.TenantProject{Project: p, SiteID: scope.SiteID()})
	}
	if err := r.db.WithContext(ctx).CreateInBatches(rows, 100).Error; err != nil {
		return translate(err, "create site projects")
	}
	for i := range rows {
		projects[i] = rows[i].Project
	}
	return nil
}

// Update replaces every mutable field of the project, including zero values.
func (r *projectRepository) Update(ctx context.Context, scope Scope, id uuid.UUID, project *model.Project) (*model.Project, error) {
	project.ID = id
	project.FillEmptyLists()

	db := r.db.WithContext(ctx)
	var res *gorm.DB
	if scope.IsGlobal() {
		res = db.Model(project).Select(projectColumns).Updates(project)
	} else {
		row := &model.TenantProject{Project: *project, SiteID: scope.SiteID()}
		res = db.Model(row).Where("site_id = ?", scope.SiteID()).Select(projectColumns).Updates(row)
	}
	if res.Error != nil {
		return nil, translate(res.Error, "update project")
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "update project")
	}
	return r.FindByID(ctx, scope, id)
}

func (r *projectRepository) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	var res *gorm.DB
	if scope.IsGlobal() {
		res = db.Where("id = ?", id).Delete(&model.Project{})
	} else {
		res = db.Where("id = ? AND site_id = ?", id, scope.SiteID()).Delete(&model.TenantProject{})
	}
	if res.Error != nil {
		return translate(res.Error, "delete project")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete project")
	}
	return nil
}

// Reorder applies every (id, sort order) pair in one transaction. An id that
// does not belong to the scope rolls back the whole batch.
func (r *projectRepository) Reorder(ctx context.Context, scope Scope, items []model.ReorderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, item := range items {
			res := scoped(tx, scope).
				Where("id = ?", item.ID).
				Updates(map[string]interface{}{"sort_order": item.SortOrder, "updated_at": now})
			if res.Error != nil {
				return translate(res.Error, "reorder projects")
			}
			if res.RowsAffected == 0 {
				return translate(gorm.ErrRecordNotFound, "reorder project "+item.ID.String())
			}
		}
		return nil
	})
}

func (r *projectRepository) Count(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	if err := scoped(r.db.WithContext(ctx), scope).Count(&count).Error; err != nil {
		return 0, translate(err, "count projects")
	}
	return count, nil
}
