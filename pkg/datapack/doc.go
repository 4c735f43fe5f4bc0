/*
Package datapack knows the on-disk layout of datapacks.

It classifies paths into roots (a world, a single datapack or a bare
functions folder), hands out the IDs that roots and datapacks use as engine
scopes and sources, and collects the resources found under a data folder.

# Layout

	<world>/datapacks/<pack>/data/<namespace>/<folders...>/<path><ext>
	<datapack>/data/<namespace>/<folders...>/<path><ext>
	<namespace>/functions/<path>.mcfunction
*/
package datapack
