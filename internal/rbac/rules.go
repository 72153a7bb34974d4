package rbac

// RolePermissions is the default role grid. Students only ever touch their
// own attempts and grades; teachers own the authoring and reporting surface.
var RolePermissions = map[string][]string{
	"student": {
		"exam:view",
		"attempt:*",
		"result:view-own",
		"account:delete-own",
	},
	"teacher": {
		"exam:*",
		"attempt:*",
		"result:*",
		"report:export",
		"account:delete-own",
	},
	"admin": {"*"},
}
