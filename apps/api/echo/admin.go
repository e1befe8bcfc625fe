package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/storage/inmem"
)

const (
	recentCount  = 5
	growthMonths = 6
)

type adminApi struct {
	tests      *inmemdb.TestRepository
	members    *inmemdb.MemberRepository
	validate   *validator.Validate
	translator ut.Translator
}

func registerAdminAPI(g *echo.Group, db *inmemdb.DB, validate *validator.Validate, translator ut.Translator) {
	api := adminApi{
		tests:      inmemdb.NewTestRepository(db),
		members:    inmemdb.NewMemberRepository(db),
		validate:   validate,
		translator: translator,
	}

	g.GET("/test", api.queryTests)
	g.GET("/admin/dashboard", api.dashboard)
}

type (
	testsData struct {
		Tests       []inmemdb.TestRow `json:"tests"`
		TotalPages  int               `json:"totalPages"`
		CurrentPage int               `json:"currentPage"`
		Count       int               `json:"count"`
	}

	dashboardData struct {
		Counts                    inmemdb.Counts      `json:"counts"`
		SubscriptionDistribution  map[string]int      `json:"subscriptionDistribution"`
		RecentlyCreatedTests      []inmemdb.TestRow   `json:"recentlyCreatedTests"`
		RecentlySubscribedMembers []inmemdb.MemberRow `json:"recentlySubscribedMembers"`
		UserGrowthChart           inmemdb.GrowthChart `json:"userGrowthChart"`
	}
)

// Handlers

func (api *adminApi) queryTests(ctx echo.Context) error {
	var q TestsQuery
	if err := q.Bind(ctx); err != nil {
		return err
	}
	if err := core.ValidateStruct(api.validate, api.translator, q); err != nil {
		return err
	}

	page := api.tests.QueryTests(inmemdb.TestFilter{
		Query:         q.Query,
		Status:        q.Status,
		Certification: q.Certification,
		Date:          q.Date,
		Page:          q.Page,
		Limit:         q.Limit,
	})
	return ctx.JSON(http.StatusOK, echo.Map{"data": testsData{
		Tests:       page.Tests,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		Count:       page.Count,
	}})
}

func (api *adminApi) dashboard(ctx echo.Context) error {
	schools, students, teachers := api.members.Population()
	return ctx.JSON(http.StatusOK, echo.Map{"data": dashboardData{
		Counts: inmemdb.Counts{
			Students: students,
			Schools:  schools,
			Teachers: teachers,
			Tests:    api.tests.CountTests(),
		},
		SubscriptionDistribution:  api.members.Distribution(),
		RecentlyCreatedTests:      api.tests.RecentTests(recentCount),
		RecentlySubscribedMembers: api.members.RecentMembers(recentCount),
		UserGrowthChart:           api.members.GrowthChart(growthMonths),
	}})
}
