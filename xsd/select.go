package xsd

import "github.com/CognitoIQ/xsdmodel/xmltree"

// Select resolves every node of the schema matched by q, in the order
// q finds them, and returns the resolved components. Matched element,
// complexType, simpleType, restriction and attribute nodes are resolved
// as during Parse; other matches are ignored. If includeTransitive is
// set, the results of Select on each included schema follow, in
// discovery order, each schema contributing once.
//
// Select returns the first resolution error, unless the ContinueOnError
// option is set.
func (r *Resolver) Select(q Query, includeTransitive bool) ([]Component, error) {
	return r.selectFrom(r, q, includeTransitive, make(map[*Resolver]bool))
}

// Failures are reported to top, the resolver Select was called on.
func (r *Resolver) selectFrom(top *Resolver, q Query, includeTransitive bool, visited map[*Resolver]bool) ([]Component, error) {
	if visited[r] {
		return nil, nil
	}
	visited[r] = true

	var result []Component
	for _, node := range q.Find(r.doc) {
		c, err := r.resolveNode(node)
		if err != nil {
			if err = top.fail(err); err != nil {
				return nil, err
			}
			continue
		}
		if c != nil {
			result = append(result, c)
		}
	}
	if !includeTransitive {
		return result, nil
	}
	for _, inc := range r.includes {
		sub, err := inc.Resolver.selectFrom(top, q, true, visited)
		if err != nil {
			return nil, err
		}
		result = append(result, sub...)
	}
	return result, nil
}

// resolveNode resolves node by its tag. It returns nil for tags that
// do not declare a component.
func (r *Resolver) resolveNode(node *xmltree.Element) (c Component, err error) {
	if node.Name.Space != schemaNS {
		return nil, nil
	}
	err = r.atomically(func() error {
		var err error
		switch node.Name.Local {
		case "element":
			c, err = r.resolveElement(node)
		case "complexType":
			c, err = r.resolveComplexType(node)
		case "simpleType":
			c, err = r.resolveSimpleType(node)
		case "restriction":
			c, err = r.resolveRestriction(node)
		case "attribute":
			c, err = r.resolveAttribute(node)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
