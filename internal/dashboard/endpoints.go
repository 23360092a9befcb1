package dashboard

// Endpoints lists the employment_workers API paths in the order their
// results are merged. The order is part of the merge contract: when two
// endpoints return the same field for the same unit, the later endpoint
// in this list wins.
var Endpoints = []string{
	"/api/employment_workers/labour-engagement",
	"/api/employment_workers/avg-persondays",
	"/api/employment_workers/category-employment",
	"/api/employment_workers/disabled",
	"/api/employment_workers/transaction",
	"/api/employment_workers/work-management",
	"/api/employment_workers/recovery",
	"/api/employment_workers/inspection",
	"/api/employment_workers/nmms-usage",
	"/api/employment_workers/geotag-pending-works",
	"/api/employment_workers/labour-material-ratio",
	"/api/employment_workers/women-mate-engagement",
	"/api/employment_workers/timely-payment",
	"/api/employment_workers/zero-muster",
	"/api/employment_workers/fra-beneficiaries",
}
