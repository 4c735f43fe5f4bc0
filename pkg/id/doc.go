/*
Package id provides namespaced identifiers and the containers keyed by them.

An ID has an optional namespace and a path. A missing namespace means
DefaultNamespace, so "stone" and "minecraft:stone" are the same identifier and
occupy the same slot in a Map or Set.

# Containers

  - Map: namespace-partitioned associative store with stable iteration
    (namespaces in insertion order, then keys in insertion order).
  - Set: the membership-only counterpart of Map.
*/
package id
