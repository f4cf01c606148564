package importrules

// DefaultRules returns the compiled-in rule table: every legacy
// prop-types/<Name> module maps to its model module, and imports of the bare
// prop-types package are dropped.
func DefaultRules() []Rule {
	return []Rule{
		Rewrite(`prop-types/ActionType$`, "model/Action",
			Replace(Default("ActionType"), Value("Action"))),
		Rewrite(`prop-types/ContributorType$`, "model/Contributor",
			Replace(Default("ContributorType"), Value("Contributor"))),
		Rewrite(`prop-types/FileListType$`, "model/File",
			Replace(Default("FileListType"), Value("FileListType"))),
		Rewrite(`prop-types/FileMatchType$`, "model/FileMatch",
			Replace(Default("FileMatchType"), Value("FileMatch"))),
		Rewrite(`prop-types/FileSort$`, "model/File",
			Replace(Value("FileSort"), Value("FileSort"))),
		Rewrite(`prop-types/FileType$`, "model/File",
			Replace(Value("FileType"), Value("File")),
			Replace(Default("FileType"), Value("File"))),
		Rewrite(`prop-types/MatchCategory$`, "model/MatchCategory",
			Replace(Value("MatchCategory"), Value("MatchCategory"))),
		Rewrite(`prop-types/MatchType$`, "model/Match",
			Replace(Default("MatchType"), Value("Match"))),
		Rewrite(`prop-types/ObjectType$`, "model/TemplateMatch",
			Replace(Default("ObjectType"), Value("TemplateMatch"))),
		Rewrite(`prop-types/PresetType$`, "model/Preset",
			Replace(Default("PresetType"), Value("Preset"))),
		Rewrite(`prop-types/RepoType$`, "model/Repo",
			Replace(Default("RepoType"), Value("Repo"))),
		Rewrite(`prop-types/SceneType$`, "model/Scene",
			Replace(Default("SceneType"), Value("Scene"))),
		Rewrite(`prop-types/TaskConfigType$`, "model/TaskConfig",
			Replace(Default("TaskConfigType"), Value("TaskConfig"))),
		Rewrite(`prop-types/TaskRequestType$`, "model/TaskRequest",
			Replace(Default("TaskRequestType"), Value("TaskRequest"))),
		Rewrite(`prop-types/TaskRequestTypes$`, "model/TaskRequestTypes",
			Replace(Default("TaskRequestTypes"), Value("TaskRequestTypes"))),
		Rewrite(`prop-types/TaskStatus$`, "model/TaskStatus",
			Replace(Default("TaskStatus"), Value("TaskStatus"))),
		Rewrite(`prop-types/TaskType$`, "model/Task",
			Replace(Default("TaskType"), Value("Task"))),
		Rewrite(`prop-types/TemplateExclusionType$`, "model/TemplateExclusion",
			Replace(Default("TemplateExclusionType"), Value("TemplateExclusion"))),
		Rewrite(`prop-types/TemplateType$`, "model/Template",
			Replace(Value("TemplateType"), Value("Template")),
			Replace(Value("TemplateExampleType"), Value("TemplateExample")),
			Replace(Value("TemplateIconType"), Value("TemplateIcon"))),
		Remove(`^prop-types$`),
	}
}
