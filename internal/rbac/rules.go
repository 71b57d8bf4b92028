package rbac

// Default role policy for the quiz lifecycle surface.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:view",
		"session:create",
		"session:save",
		"session:submit",
		"session:view-own",
		"result:view-own",
	},
	"teacher": {
		"quiz:create",
		"quiz:edit",
		"quiz:publish",
		"quiz:view",
		"quiz:view-answers",
		"session:view-all",
		"result:view-all",
	},
	"admin": {
		"*", // everything
	},
}
