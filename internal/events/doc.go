// Package events records Kubernetes Events for DocumentRoute resources.
//
// In kubernetes mode the reconcile loop hands every finished tick to an
// EventGenerator, which makes the outcome of each route visible through
// standard tooling:
//
//	kubectl get events --field-selector involvedObject.kind=DocumentRoute
//
// Messages are rendered from per-reason templates (text/template with sprig
// functions) and can be overridden with MessageTemplateEngine.SetTemplate.
package events
