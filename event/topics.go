package event

// Topic names one of the fixed event channels. The vocabulary is
// closed: components publish and subscribe with these constants only,
// so a typo fails to compile instead of creating an orphan topic.
type Topic string

const (
	// Filter events
	TopicFilterChange Topic = "filter:change"
	TopicFilterReset  Topic = "filter:reset"

	// Data lifecycle events
	TopicDataLoading Topic = "data:loading"
	TopicDataLoaded  Topic = "data:loaded"
	TopicDataError   Topic = "data:error"

	// UI events
	TopicPageChange     Topic = "ui:page:change"
	TopicTabChange      Topic = "ui:tab:change"
	TopicVizChange      Topic = "ui:viz:change"
	TopicSidebarToggle  Topic = "ui:sidebar:toggle"
	TopicTutorialToggle Topic = "ui:tutorial:toggle"
	TopicExportRequest  Topic = "ui:export:request"

	// Report events
	TopicReportGenerate Topic = "report:generate"
	TopicReportReady    Topic = "report:ready"
	TopicReportError    Topic = "report:error"
)
